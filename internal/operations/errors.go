package operations

import (
	"errors"
	"fmt"
)

// StepError wraps a failure with the step it happened in so the
// operator sees which stage of the run to look at.
type StepError struct {
	Step  string
	Cause error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	if e == nil {
		return "unknown step error"
	}
	return fmt.Sprintf("step %s: %v", e.Step, e.Cause)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// WrapStepError attaches step context once; an already-wrapped error
// passes through unchanged.
func WrapStepError(step string, err error) error {
	if err == nil {
		return nil
	}
	var se *StepError
	if errors.As(err, &se) {
		return err
	}
	return &StepError{Step: step, Cause: err}
}
