package qualification

import (
	"errors"
	"fmt"
)

// ErrInvalidProgram is returned by NewEngine when the program's ladder cannot
// be used. Data problems are never errors; see Warning.
var ErrInvalidProgram = errors.New("invalid program")

// ProgramError describes why a Program failed validation.
type ProgramError struct {
	Reason string
}

func (e *ProgramError) Error() string {
	return fmt.Sprintf("invalid program: %s", e.Reason)
}

func (e *ProgramError) Unwrap() error { return ErrInvalidProgram }
