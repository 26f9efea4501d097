package history

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidTraveler = errors.New("invalid traveler")
)

// NotFoundError names the missing record.
type NotFoundError struct {
	Kind string // "traveler", "flight", "manual entry"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
