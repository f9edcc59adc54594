package domain

import (
	"errors"
	"fmt"
	"text/scanner"
)

// ErrInvalidComplexity is returned when a complexity is negative or not an integer.
var ErrInvalidComplexity = errors.New("invalid complexity")

// ErrInvalidSize is returned when a raster size is not positive.
var ErrInvalidSize = errors.New("invalid size")

// ErrEmptyPhrase is returned when a phrase is required but empty.
var ErrEmptyPhrase = errors.New("empty phrase")

// ErrDuplicateKind is returned when a different kind is registered under a taken name.
var ErrDuplicateKind = errors.New("duplicate operator kind")

// Parse failures. They are always wrapped in a *ParseError.
var (
	ErrUnknownKind      = errors.New("unknown operator kind")
	ErrArityMismatch    = errors.New("arity mismatch")
	ErrMalformedLiteral = errors.New("malformed literal")
	ErrUnknownParam     = errors.New("unknown parameter")
	ErrMissingParam     = errors.New("missing parameter")
	ErrUnexpectedToken  = errors.New("unexpected token")
)

// ErrBusy is returned when a client already has a render in flight.
var ErrBusy = errors.New("already generating")

// ErrCacheMiss is returned by art caches when no entry exists for a key.
var ErrCacheMiss = errors.New("cache miss")

// ParseError reports where art text stopped making sense.
type ParseError struct {
	Pos   scanner.Position
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %v near %q", e.Pos.Line, e.Pos.Column, e.Err, e.Token)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err was caused by bad caller input rather than a failure of the system.
func IsInputError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) ||
		errors.Is(err, ErrInvalidComplexity) ||
		errors.Is(err, ErrInvalidSize) ||
		errors.Is(err, ErrEmptyPhrase)
}
