package ray

import (
	"errors"
	"fmt"
)

// Error taxonomy for grid loading, sampling and integration.
var (
	// ErrFileIO indicates the grid source could not be opened or read.
	ErrFileIO = errors.New("ray: grid source unreadable")

	// ErrSchemaInvalid indicates a grid with missing variables or mismatched shapes.
	ErrSchemaInvalid = errors.New("ray: grid schema invalid")

	// ErrOutOfDomain indicates a sample requested outside the grid extent.
	ErrOutOfDomain = errors.New("ray: point outside domain")

	// ErrInvalidState indicates degenerate kinematics (zero wavenumber) or a
	// non-finite derivative.
	ErrInvalidState = errors.New("ray: invalid state")

	// ErrGrounded indicates the depth at the ray position is not positive.
	ErrGrounded = errors.New("ray: grounded")

	// ErrInvalidParameter indicates a bad step size, end time or batch input.
	ErrInvalidParameter = errors.New("ray: invalid parameter")
)

// StepError wraps a termination cause with the step at which it happened.
type StepError struct {
	Step  int
	Time  float64
	State Vector
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Fatal reports whether err must abort the call that produced it instead of
// ending a single trajectory.
func Fatal(err error) bool {
	return errors.Is(err, ErrFileIO) ||
		errors.Is(err, ErrSchemaInvalid) ||
		errors.Is(err, ErrInvalidParameter)
}
