package operations

import (
	"context"
	"errors"
	"fmt"
)

// StepError reports which step of a run failed. The cause stays reachable
// through errors.Is and errors.As.
type StepError struct {
	Operation string `json:"operation"`
	Step      string `json:"step"`
	Cause     error  `json:"cause,omitempty"`
}

// Error implements the error interface
func (e *StepError) Error() string {
	if e == nil {
		return "unknown step error"
	}
	return fmt.Sprintf("%s: step %s: %v", e.Operation, e.Step, e.Cause)
}

// Unwrap returns the underlying error
func (e *StepError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewStepError wraps cause with the failing operation and step.
func NewStepError(operation, step string, cause error) *StepError {
	return &StepError{Operation: operation, Step: step, Cause: cause}
}

// FailedStep returns the name of the step that produced err, if any.
func FailedStep(err error) (string, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step, true
	}
	return "", false
}

// IsCancellation reports whether err stems from a cancelled or expired
// context.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
