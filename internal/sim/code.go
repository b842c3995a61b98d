package sim

import (
	"errors"

	"github.com/san-kum/wavetrace/internal/ray"
)

// Code is the numeric outcome reported across the C boundary.
type Code int32

const (
	CodeCompleted        Code = 0
	CodeGrounded         Code = 1
	CodeExitedDomain     Code = 2
	CodeFailed           Code = 3
	CodeFileIO           Code = 10
	CodeSchemaInvalid    Code = 11
	CodeInvalidParameter Code = 12
	CodeOther            Code = 99
)

// CodeOf maps a call error, or when it is nil the trajectory status, to a
// Code.
func CodeOf(tr ray.Trajectory, err error) Code {
	if err != nil {
		switch {
		case errors.Is(err, ray.ErrFileIO):
			return CodeFileIO
		case errors.Is(err, ray.ErrSchemaInvalid):
			return CodeSchemaInvalid
		case errors.Is(err, ray.ErrInvalidParameter):
			return CodeInvalidParameter
		default:
			return CodeOther
		}
	}
	switch tr.Status {
	case ray.Completed:
		return CodeCompleted
	case ray.Grounded:
		return CodeGrounded
	case ray.ExitedDomain:
		return CodeExitedDomain
	case ray.Failed:
		return CodeFailed
	default:
		return CodeOther
	}
}
