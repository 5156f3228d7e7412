package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for container lookup and daemon access.
var (
	ErrNotFound          = errors.New("container not found")
	ErrNoStatus          = errors.New("container has no status")
	ErrDaemonUnavailable = errors.New("container daemon unavailable")
)

// ErrorKind is a machine-readable classification of a failed operation.
type ErrorKind string

const (
	KindBadRequest        ErrorKind = "bad_request"
	KindNotFound          ErrorKind = "not_found"
	KindNoStatus          ErrorKind = "no_status"
	KindOperationFailed   ErrorKind = "operation_failed"
	KindDaemonUnavailable ErrorKind = "daemon_unavailable"
	KindInternal          ErrorKind = "internal"
)

// LookupError reports a failure to resolve or read a container by name.
// Its message is safe to return to callers.
type LookupError struct {
	Container string
	Err       error // one of the sentinel errors above
}

func (e *LookupError) Error() string {
	switch {
	case errors.Is(e.Err, ErrNotFound):
		return fmt.Sprintf("Container %s not found", e.Container)
	case errors.Is(e.Err, ErrNoStatus):
		return fmt.Sprintf("Container %s has no status", e.Container)
	default:
		return fmt.Sprintf("Container %s lookup failed", e.Container)
	}
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// OperationError reports that the daemon rejected a lifecycle action.
// Error() deliberately omits the daemon's own message.
type OperationError struct {
	Container string
	Action    string // start, stop, restart
	Err       error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("Container %s failed to %s", e.Container, e.Action)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Kind classifies err for the X-Error-Kind response header.
func Kind(err error) ErrorKind {
	var opErr *OperationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrNoStatus):
		return KindNoStatus
	case errors.Is(err, ErrDaemonUnavailable):
		return KindDaemonUnavailable
	case errors.As(err, &opErr):
		return KindOperationFailed
	default:
		return KindInternal
	}
}
