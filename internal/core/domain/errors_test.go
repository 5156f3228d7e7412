package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupError_Message(t *testing.T) {
	assert.Equal(t, "Container web not found", (&LookupError{Container: "web", Err: ErrNotFound}).Error())
	assert.Equal(t, "Container web has no status", (&LookupError{Container: "web", Err: ErrNoStatus}).Error())

	daemonErr := fmt.Errorf("%w: %w", ErrDaemonUnavailable, errors.New("dial unix /var/run/docker.sock: connect: permission denied"))
	err := &LookupError{Container: "web", Err: daemonErr}
	assert.Equal(t, "Container web lookup failed", err.Error())
	assert.NotContains(t, err.Error(), "permission denied")
}

func TestOperationError_HidesDaemonDetail(t *testing.T) {
	cause := errors.New("Error response from daemon: container is not running")
	err := &OperationError{Container: "web", Action: "stop", Err: cause}

	assert.Equal(t, "Container web failed to stop", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "not found", err: &LookupError{Container: "x", Err: ErrNotFound}, want: KindNotFound},
		{name: "no status", err: &LookupError{Container: "x", Err: ErrNoStatus}, want: KindNoStatus},
		{name: "daemon", err: &LookupError{Container: "x", Err: fmt.Errorf("%w: boom", ErrDaemonUnavailable)}, want: KindDaemonUnavailable},
		{name: "operation", err: &OperationError{Container: "x", Action: "start", Err: errors.New("boom")}, want: KindOperationFailed},
		{name: "other", err: errors.New("boom"), want: KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}
