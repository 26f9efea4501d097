package pointtable

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownAirport = errors.New("unknown airport")
	ErrInvalidRoute   = errors.New("invalid route")
	ErrInvalidCabin   = errors.New("invalid cabin class")
)

// UnknownAirportError names the code that is missing from the directory.
type UnknownAirportError struct {
	Code string
}

func (e *UnknownAirportError) Error() string {
	return fmt.Sprintf("unknown airport %q", e.Code)
}

func (e *UnknownAirportError) Unwrap() error { return ErrUnknownAirport }
