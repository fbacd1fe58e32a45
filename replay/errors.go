package replay

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownPhase = errors.New("unknown phase")
	ErrInvalidKey   = errors.New("invalid request key")
	ErrEmptyScript  = errors.New("script has no steps")
)

// StepError identifies the script step that could not be applied.
type StepError struct {
	Index int
	Step  Step
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s %s): %v", e.Index, e.Step.Phase, e.Step.Key, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
