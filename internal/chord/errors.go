package chord

import (
	"errors"
	"fmt"
)

// Error kinds returned by Resolve. Match them with errors.Is.
var (
	ErrInvalidNotation   = errors.New("InvalidNotation")
	ErrUnknownQuality    = errors.New("UnknownQuality")
	ErrUnknownAlteration = errors.New("UnknownAlteration")
	ErrUnknownRoot       = errors.New("UnknownRoot")
)

// ParseError describes why a notation could not be resolved.
type ParseError struct {
	Notation string
	Kind     error
	Detail   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %q: %s", e.Kind, e.Notation, e.Detail)
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

func newError(notation string, kind error, format string, args ...any) *ParseError {
	return &ParseError{Notation: notation, Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Kind returns the name of the error kind carried by err, or "" if err did not come from Resolve.
func Kind(err error) string {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind.Error()
	}
	return ""
}
