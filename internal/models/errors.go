package models

import "fmt"

// ErrorKind classifies zeroize failures.
type ErrorKind string

// Error kinds.
const (
	KindConfiguration ErrorKind = "configuration"
	KindConnection    ErrorKind = "connection"
	KindCollaborator  ErrorKind = "collaborator"
)

// ZeroizeError is returned by every step that can abort a run.
type ZeroizeError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// NewConfigurationError creates a configuration error.
func NewConfigurationError(format string, args ...any) *ZeroizeError {
	return &ZeroizeError{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

// NewConnectionError creates a connection error for host.
func NewConnectionError(host string, err error) *ZeroizeError {
	return &ZeroizeError{
		Kind:    KindConnection,
		Message: fmt.Sprintf("unable to connect to %s: %s", host, err),
		Err:     err,
	}
}

// NewCollaboratorError creates an error raised by the console bootstrap tool.
func NewCollaboratorError(err error) *ZeroizeError {
	return &ZeroizeError{Kind: KindCollaborator, Message: err.Error(), Err: err}
}

// Error implements the error interface.
func (e *ZeroizeError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *ZeroizeError) Unwrap() error {
	return e.Err
}
