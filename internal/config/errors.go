package config

import (
	"errors"
	"fmt"
)

// Sentinels wrapped by *Error.  Match with errors.Is.
var (
	// ErrInvalidValue means a raw value could not be converted to the
	// field's type (bad bool, bad UUID, malformed list).
	ErrInvalidValue = errors.New("invalid value")
	// ErrValidation means a converted value broke a rule (environment not
	// in the allowed set, bad URL).
	ErrValidation = errors.New("validation failed")
)

// Error identifies the field and raw value that stopped resolution.
type Error struct {
	Field string
	Value string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
