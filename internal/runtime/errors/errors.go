package errors

import (
	sterrors "errors"
	"fmt"

	"github.com/drblury/schemarpc/wire"
)

var (
	ErrCatalogRequired     = sterrors.New("schemarpc: schema catalog is required")
	ErrConnectionRequired  = sterrors.New("schemarpc: connection is required")
	ErrCorrelatorRequired  = sterrors.New("schemarpc: correlator is required")
	ErrConfigRequired      = sterrors.New("schemarpc: configuration is required")
	ErrLoggerRequired      = sterrors.New("schemarpc: logger is required")
	ErrDomainRequired      = sterrors.New("schemarpc: domain name is required")
	ErrCommandNameRequired = sterrors.New("schemarpc: command name is required")
	ErrBindingNameTaken    = sterrors.New("schemarpc: command already bound")
)

// RemoteCommandError reports a reply that carried an error object instead
// of a result. It keeps the original request so callers can see exactly
// what was sent.
type RemoteCommandError struct {
	Method  string
	Detail  *wire.ErrorDetail
	Request *wire.Request
}

func (e *RemoteCommandError) Error() string {
	return fmt.Sprintf("schemarpc: command %s failed: %s", e.Method, e.Detail.String())
}

// Message returns the error message reported by the remote endpoint.
func (e *RemoteCommandError) Message() string {
	if e.Detail == nil {
		return ""
	}
	return e.Detail.Message
}

// SchemaGapError marks a declared type whose kind the runtime does not
// understand. Validators built for such types always fail with this error
// so incomplete schema coverage surfaces instead of admitting arbitrary
// data.
type SchemaGapError struct {
	TypeID string
	Kind   string
}

func (e *SchemaGapError) Error() string {
	return fmt.Sprintf("schemarpc: type %s declares unsupported kind %q", e.TypeID, e.Kind)
}
