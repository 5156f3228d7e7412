package docker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/melih/dockhook/internal/apperrors"
	"github.com/melih/dockhook/internal/config"
	"github.com/melih/dockhook/internal/core/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDaemon = errors.New("Error response from daemon: boom")

// fakeDocker implements dockerAPI for testing
type fakeDocker struct {
	containers []container.Summary
	failOn     string // ping, list, start, stop, restart
	calls      []string
	listOpts   container.ListOptions
	closed     bool

	actionDelay    time.Duration // how long start/stop/restart take to succeed
	actionDeadline bool          // whether the last action carried a deadline
}

// act simulates a daemon action that completes after actionDelay unless ctx ends first.
func (f *fakeDocker) act(ctx context.Context, call string) error {
	f.calls = append(f.calls, call)
	_, f.actionDeadline = ctx.Deadline()
	if f.actionDelay > 0 {
		select {
		case <-time.After(f.actionDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.fail(strings.SplitN(call, ":", 2)[0])
}

func (f *fakeDocker) fail(op string) error {
	if f.failOn == op {
		return errDaemon
	}
	return nil
}

func (f *fakeDocker) Ping(_ context.Context) (types.Ping, error) {
	return types.Ping{}, f.fail("ping")
}

func (f *fakeDocker) ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error) {
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("expected a deadline on list")
	}
	f.listOpts = options
	if err := f.fail("list"); err != nil {
		return nil, err
	}
	return f.containers, nil
}

func (f *fakeDocker) ContainerStart(ctx context.Context, id string, _ container.StartOptions) error {
	return f.act(ctx, "start:"+id)
}

func (f *fakeDocker) ContainerStop(ctx context.Context, id string, _ container.StopOptions) error {
	return f.act(ctx, "stop:"+id)
}

func (f *fakeDocker) ContainerRestart(ctx context.Context, id string, _ container.StopOptions) error {
	return f.act(ctx, "restart:"+id)
}

func (f *fakeDocker) Close() error {
	f.closed = true
	return nil
}

func newTestAdapter(f *fakeDocker, match string) *Adapter {
	return newAdapter(f, config.DockerConfig{
		Host:          config.DefaultDockerHost,
		LookupTimeout: time.Second,
		Match:         match,
	}, zerolog.Nop())
}

func sampleContainers() []container.Summary {
	return []container.Summary{
		{ID: "1111111111111111", Names: []string{"/api"}, Status: "Up 3 hours", State: "running"},
		{ID: "2222222222222222", Names: []string{"/web-1"}, Status: "running", State: "running"},
		{ID: "3333333333333333", Names: []string{"/nostatus"}, State: "created"},
	}
}

func TestAdapter_Healthcheck(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		failOn     string
		wantStatus string
		wantErr    string
		wantKind   domain.ErrorKind
	}{
		{name: "substring match", target: "web", wantStatus: "running"},
		{name: "exact match", target: "api", wantStatus: "Up 3 hours"},
		{name: "not found", target: "cache", wantErr: "Container cache not found", wantKind: domain.KindNotFound},
		{name: "no status", target: "nostatus", wantErr: "Container nostatus has no status", wantKind: domain.KindNoStatus},
		{name: "list fails", target: "web", failOn: "list", wantErr: "Container web lookup failed", wantKind: domain.KindDaemonUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeDocker{containers: sampleContainers(), failOn: tt.failOn}
			adapter := newTestAdapter(fake, "fuzzy")

			status, err := adapter.Healthcheck(context.Background(), tt.target)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				assert.Equal(t, tt.wantKind, domain.Kind(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, status)
			assert.True(t, fake.listOpts.All, "stopped containers must be listed too")
		})
	}
}

func TestAdapter_Healthcheck_Idempotent(t *testing.T) {
	adapter := newTestAdapter(&fakeDocker{containers: sampleContainers()}, "fuzzy")

	first, err1 := adapter.Healthcheck(context.Background(), "web")
	second, err2 := adapter.Healthcheck(context.Background(), "web")
	assert.Equal(t, first, second)
	assert.Equal(t, err1, err2)
}

func TestAdapter_Lifecycle(t *testing.T) {
	tests := []struct {
		name      string
		action    string
		target    string
		failOn    string
		match     string
		wantCalls []string
		wantErr   string
	}{
		{name: "start by exact name", action: "start", target: "api", wantCalls: []string{"start:1111111111111111"}},
		{name: "stop by substring", action: "stop", target: "web", wantCalls: []string{"stop:2222222222222222"}},
		{name: "restart by id", action: "restart", target: "3333333333333333", wantCalls: []string{"restart:3333333333333333"}},
		{name: "start fails", action: "start", target: "api", failOn: "start", wantCalls: []string{"start:1111111111111111"}, wantErr: "Container api failed to start"},
		{name: "stop fails", action: "stop", target: "web", failOn: "stop", wantCalls: []string{"stop:2222222222222222"}, wantErr: "Container web failed to stop"},
		{name: "restart fails", action: "restart", target: "api", failOn: "restart", wantCalls: []string{"restart:1111111111111111"}, wantErr: "Container api failed to restart"},
		{name: "unknown container", action: "start", target: "cache", wantErr: "Container cache not found"},
		{name: "exact mode rejects substring", action: "stop", target: "web", match: "exact", wantErr: "Container web not found"},
		{name: "list fails", action: "restart", target: "api", failOn: "list", wantErr: "Container api lookup failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeDocker{containers: sampleContainers(), failOn: tt.failOn}
			match := tt.match
			if match == "" {
				match = "fuzzy"
			}
			adapter := newTestAdapter(fake, match)

			ops := map[string]func(context.Context, string) error{
				"start":   adapter.Start,
				"stop":    adapter.Stop,
				"restart": adapter.Restart,
			}
			err := ops[tt.action](context.Background(), tt.target)

			assert.Equal(t, tt.wantCalls, fake.calls)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAdapter_ActionsOutliveLookupTimeout(t *testing.T) {
	fake := &fakeDocker{containers: sampleContainers(), actionDelay: 300 * time.Millisecond}
	adapter := newAdapter(fake, config.DockerConfig{
		Host:          config.DefaultDockerHost,
		LookupTimeout: 50 * time.Millisecond,
		Match:         "fuzzy",
	}, zerolog.Nop())

	for _, op := range []func(context.Context, string) error{adapter.Stop, adapter.Restart} {
		require.NoError(t, op(context.Background(), "api"))
		assert.False(t, fake.actionDeadline, "actions must not carry a client-side deadline by default")
	}
}

func TestAdapter_ConfiguredActionTimeout(t *testing.T) {
	fake := &fakeDocker{containers: sampleContainers(), actionDelay: time.Second}
	adapter := newAdapter(fake, config.DockerConfig{
		Host:          config.DefaultDockerHost,
		LookupTimeout: time.Second,
		Timeout:       20 * time.Millisecond,
		Match:         "fuzzy",
	}, zerolog.Nop())

	err := adapter.Stop(context.Background(), "api")
	require.EqualError(t, err, "Container api failed to stop")
	assert.True(t, fake.actionDeadline)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAdapter_OperationErrorWrapsCause(t *testing.T) {
	adapter := newTestAdapter(&fakeDocker{containers: sampleContainers(), failOn: "stop"}, "fuzzy")

	err := adapter.Stop(context.Background(), "api")
	var opErr *domain.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "stop", opErr.Action)
	assert.ErrorIs(t, err, errDaemon)
	assert.NotContains(t, err.Error(), "boom")
}

func TestAdapter_PingAndClose(t *testing.T) {
	fake := &fakeDocker{failOn: "ping"}
	adapter := newTestAdapter(fake, "fuzzy")

	err := adapter.Ping(context.Background())
	var connErr *apperrors.DockerConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "ping", connErr.Operation)
	assert.Equal(t, config.DefaultDockerHost, connErr.Host)

	fake.failOn = ""
	assert.NoError(t, adapter.Ping(context.Background()))

	require.NoError(t, adapter.Close())
	assert.True(t, fake.closed)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abcdefabcdef", shortID("abcdefabcdef0123456789"))
	assert.Equal(t, "abc", shortID("abc"))
}
