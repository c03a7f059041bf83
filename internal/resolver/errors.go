package resolver

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when the resolution request has an empty service name.
	ErrInvalidRequest = errors.New("service name must not be empty")
	// ErrServiceNotFound is returned when no document exists for the requested service.
	ErrServiceNotFound = errors.New("no configuration document found for service")
	// ErrUnresolvedPlaceholder is returned when a ${VAR} placeholder has no
	// environment value and no default.
	ErrUnresolvedPlaceholder = errors.New("unresolved environment placeholder")
)

// PlaceholderError reports which property and which variable failed to resolve.
type PlaceholderError struct {
	Key      string
	Variable string
}

func (e *PlaceholderError) Error() string {
	return fmt.Sprintf("property %q references undefined environment variable %q", e.Key, e.Variable)
}

func (e *PlaceholderError) Unwrap() error {
	return ErrUnresolvedPlaceholder
}
