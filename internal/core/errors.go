package core

import (
	"errors"
	"fmt"
)

// Coercion failures. Callers test for these with errors.Is.
var (
	ErrUnknownColumnType = errors.New("unknown column type")
	ErrInvalidInteger    = errors.New("invalid integer")
	ErrInvalidBoolean    = errors.New("invalid boolean")
)

// Input and session failures.
var (
	ErrInputTooLarge   = errors.New("input too large")
	ErrEmptyInput      = errors.New("empty input")
	ErrSessionNotFound = errors.New("session not found")
	ErrRateLimited     = errors.New("rate limit exceeded")
)

// ConfigError reports a field whose column configuration is missing or
// unusable. It is fatal to generation.
type ConfigError struct {
	Field  string
	Reason string
}

// Configuration reasons, matched by MapError.
const (
	ReasonMissing   = "missing configuration"
	ReasonEmptyName = "empty column name"
	ReasonUnknown   = "unknown field"

	ReasonNotIdentifier = "not a plain SQL identifier"
)

func (e *ConfigError) Error() string {
	return fmt.Sprintf("column %q: %s", e.Field, e.Reason)
}

// CoercionError identifies the cell that could not be converted. It unwraps
// to one of the coercion sentinels.
type CoercionError struct {
	Field string
	Row   int // zero-based row ordinal
	Value string
	Type  ColumnType
	Err   error
}

func (e *CoercionError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("column %q: %v: %q", e.Field, e.Err, string(e.Type))
	}
	return fmt.Sprintf("row %d, column %q: %v: %q", e.Row+1, e.Field, e.Err, e.Value)
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}
