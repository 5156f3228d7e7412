// Package apperrors provides error types for failures outside the request path:
// configuration loading and daemon connection setup.
package apperrors

import "fmt"

// ConfigurationError represents configuration-related errors.
type ConfigurationError struct {
	ConfigPath string // Path to the configuration file, empty when using defaults
	Key        string // Configuration key that caused the error
	Err        error
}

func (e *ConfigurationError) Error() string {
	source := e.ConfigPath
	if source == "" {
		source = "(defaults/environment)"
	}
	if e.Key != "" {
		return fmt.Sprintf("configuration error in %s (key: %s): %v", source, e.Key, e.Err)
	}
	return fmt.Sprintf("configuration error in %s: %v", source, e.Err)
}

// Unwrap returns the underlying error for error wrapping chains.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// DockerConnectionError represents a failure to reach or set up the Docker daemon.
type DockerConnectionError struct {
	Host      string // Daemon host, e.g. unix:///var/run/docker.sock
	Operation string // Operation that failed, e.g. "connect", "ping"
	Err       error
}

func (e *DockerConnectionError) Error() string {
	if e.Host != "" {
		return fmt.Sprintf("docker %s failed (host: %s): %v", e.Operation, e.Host, e.Err)
	}
	return fmt.Sprintf("docker %s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error for error wrapping chains.
func (e *DockerConnectionError) Unwrap() error {
	return e.Err
}
