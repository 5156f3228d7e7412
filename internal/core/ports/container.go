package ports

import (
	"context"
)

// ContainerService defines the operations exposed over HTTP for a single
// named container. Implementations resolve name the same way for every call.
type ContainerService interface {
	// Healthcheck returns the daemon's status text for the container.
	Healthcheck(ctx context.Context, name string) (string, error)
	Start(ctx context.Context, name string) error
	Stop(ctx context.Context, name string) error
	Restart(ctx context.Context, name string) error

	// Ping verifies the daemon is reachable.
	Ping(ctx context.Context) error
	Close() error
}
