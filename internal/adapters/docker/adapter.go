package docker

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/melih/dockhook/internal/apperrors"
	"github.com/melih/dockhook/internal/config"
	"github.com/melih/dockhook/internal/core/domain"
	"github.com/melih/dockhook/internal/core/ports"
	"github.com/rs/zerolog"
)

// dockerAPI is the subset of *client.Client used by the adapter.
type dockerAPI interface {
	Ping(ctx context.Context) (types.Ping, error)
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerRestart(ctx context.Context, containerID string, options container.StopOptions) error
	Close() error
}

// Adapter implements ports.ContainerService using Docker SDK.
// A single Adapter is shared by all requests; the SDK client is safe for concurrent use.
type Adapter struct {
	cli           dockerAPI
	host          string
	lookupTimeout time.Duration
	actionTimeout time.Duration // zero means no client-side deadline
	match         domain.MatchMode
	log           zerolog.Logger
}

var _ ports.ContainerService = (*Adapter)(nil)

// NewAdapter creates a new Docker adapter connected to cfg.Host.
func NewAdapter(cfg config.DockerConfig, logger zerolog.Logger) (*Adapter, error) {
	cli, err := client.NewClientWithOpts(
		client.WithHost(cfg.Host),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, &apperrors.DockerConnectionError{Host: cfg.Host, Operation: "connect", Err: err}
	}
	return newAdapter(cli, cfg, logger), nil
}

func newAdapter(cli dockerAPI, cfg config.DockerConfig, logger zerolog.Logger) *Adapter {
	return &Adapter{
		cli:           cli,
		host:          cfg.Host,
		lookupTimeout: cfg.LookupTimeout,
		actionTimeout: cfg.Timeout,
		match:         cfg.MatchMode(),
		log:           logger.With().Str("component", "docker").Logger(),
	}
}

// Ping verifies the Docker daemon is reachable.
func (a *Adapter) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, a.lookupTimeout)
	defer cancel()

	if _, err := a.cli.Ping(ctx); err != nil {
		return &apperrors.DockerConnectionError{Host: a.host, Operation: "ping", Err: err}
	}
	return nil
}

// Close releases the daemon connection.
func (a *Adapter) Close() error {
	return a.cli.Close()
}

// Healthcheck returns the status text of the container resolved from name.
func (a *Adapter) Healthcheck(ctx context.Context, name string) (string, error) {
	ctr, err := a.lookup(ctx, name)
	if err != nil {
		return "", err
	}
	if !ctr.HasStatus() {
		return "", &domain.LookupError{Container: name, Err: domain.ErrNoStatus}
	}
	return ctr.Status, nil
}

// Start starts the container resolved from name.
func (a *Adapter) Start(ctx context.Context, name string) error {
	return a.lifecycle(ctx, name, "start", func(ctx context.Context, id string) error {
		return a.cli.ContainerStart(ctx, id, container.StartOptions{})
	})
}

// Stop stops the container resolved from name with the daemon's default timeout.
func (a *Adapter) Stop(ctx context.Context, name string) error {
	return a.lifecycle(ctx, name, "stop", func(ctx context.Context, id string) error {
		return a.cli.ContainerStop(ctx, id, container.StopOptions{})
	})
}

// Restart restarts the container resolved from name with default options.
func (a *Adapter) Restart(ctx context.Context, name string) error {
	return a.lifecycle(ctx, name, "restart", func(ctx context.Context, id string) error {
		return a.cli.ContainerRestart(ctx, id, container.StopOptions{})
	})
}

func (a *Adapter) lifecycle(ctx context.Context, name, action string, op func(context.Context, string) error) error {
	ctr, err := a.lookup(ctx, name)
	if err != nil {
		return err
	}

	// Stop and restart wait out the container's own stop timeout on the daemon side.
	ctx, cancel := withTimeout(ctx, a.actionTimeout)
	defer cancel()

	if err := op(ctx, ctr.ID); err != nil {
		a.log.Warn().Err(err).
			Str("container", name).
			Str("id", shortID(ctr.ID)).
			Str("action", action).
			Msg("daemon rejected container action")
		return &domain.OperationError{Container: name, Action: action, Err: err}
	}

	a.log.Info().
		Str("container", name).
		Str("id", shortID(ctr.ID)).
		Str("action", action).
		Msg("container action completed")
	return nil
}

// lookup lists all containers, stopped ones included, and resolves name.
func (a *Adapter) lookup(ctx context.Context, name string) (domain.Container, error) {
	containers, err := a.listContainers(ctx)
	if err != nil {
		a.log.Error().Err(err).Str("container", name).Msg("failed to list containers")
		return domain.Container{}, &domain.LookupError{
			Container: name,
			Err:       fmt.Errorf("%w: %w", domain.ErrDaemonUnavailable, err),
		}
	}

	ctr, ok := domain.FindContainer(containers, name, a.match)
	if !ok {
		return domain.Container{}, &domain.LookupError{Container: name, Err: domain.ErrNotFound}
	}
	a.log.Debug().Str("container", name).Strs("names", ctr.Names).Msg("resolved container")
	return ctr, nil
}

func (a *Adapter) listContainers(ctx context.Context) ([]domain.Container, error) {
	ctx, cancel := withTimeout(ctx, a.lookupTimeout)
	defer cancel()

	summaries, err := a.cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	result := make([]domain.Container, 0, len(summaries))
	for _, s := range summaries {
		result = append(result, domain.Container{
			ID:     s.ID,
			Names:  s.Names,
			Status: s.Status,
			State:  string(s.State),
		})
	}
	return result, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
