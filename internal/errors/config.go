// Package errors defines the sentinel error types shared across pipeline
// stages.
package errors

import "errors"

// ConfigError represents a missing or invalid credential for a required
// external service. It is fatal at stage startup: no task runs for a stage
// whose configuration is incomplete.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// NewConfigError creates a new ConfigError with the given message.
func NewConfigError(message string) *ConfigError {
	return &ConfigError{Message: message}
}

// IsConfigError reports whether err is a ConfigError (even when wrapped).
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}
