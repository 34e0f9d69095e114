package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors for failures that involve the carrier integration rather
// than plain input validation.
var (
	ErrConfigIsInvalid = errors.New("configuration is invalid")
	ErrProviderFailure = errors.New("provider request failed")
)

// ConfigError indicates that credentials or endpoints required to talk to
// the carrier are missing or malformed. Fatal, never retried.
type ConfigError struct {
	ParamName string
	Cause     error
}

// NewConfigError creates a ConfigError without a cause.
func NewConfigError(paramName string) *ConfigError {
	return &ConfigError{ParamName: paramName}
}

// NewConfigErrorWithCause creates a ConfigError wrapping the underlying cause.
func NewConfigErrorWithCause(paramName string, cause error) *ConfigError {
	return &ConfigError{ParamName: paramName, Cause: cause}
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrConfigIsInvalid, e.ParamName, sanitize(e.Cause))
	}
	return fmt.Sprintf("%s: %s", ErrConfigIsInvalid, e.ParamName)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfigIsInvalid
}

// ProviderError carries the carrier's own error code and description for a
// non-2xx response, or the truncated raw body when the response could not be
// parsed. Status holds the HTTP status code.
type ProviderError struct {
	Operation   string
	Status      int
	Code        string
	Description string
	Cause       error
}

// NewProviderError creates a ProviderError from an unwrapped carrier error
// response.
func NewProviderError(operation string, status int, code, description string) *ProviderError {
	return &ProviderError{Operation: operation, Status: status, Code: code, Description: description}
}

// NewProviderErrorWithCause creates a ProviderError for a transport-level
// failure where no carrier response was received.
func NewProviderErrorWithCause(operation string, cause error) *ProviderError {
	return &ProviderError{Operation: operation, Cause: cause}
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrProviderFailure, e.Operation, sanitize(e.Cause))
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s: %d - %s: %s",
			ErrProviderFailure, e.Operation, e.Status, e.Code, sanitize(e.Description))
	}
	return fmt.Sprintf("%s: %s: %d - %s", ErrProviderFailure, e.Operation, e.Status, sanitize(e.Description))
}

func (e *ProviderError) Unwrap() error {
	return ErrProviderFailure
}
