package calendar

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDate is returned for strings that are not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidMonth is returned for strings that are not YYYY-MM.
	ErrInvalidMonth = errors.New("invalid month")
)

// ParseError carries the offending input.
type ParseError struct {
	Kind  string
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %q", e.Err, e.Input)
}

func (e *ParseError) Unwrap() error { return e.Err }
