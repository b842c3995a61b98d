package ray

import (
	"errors"
	"fmt"
)

// Status is the state of an integration.
type Status int

const (
	Running Status = iota
	Completed
	Grounded
	ExitedDomain
	Failed
)

var statusNames = map[Status]string{
	Running:      "running",
	Completed:    "completed",
	Grounded:     "grounded",
	ExitedDomain: "exited_domain",
	Failed:       "failed",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Terminal reports whether no further steps follow s.
func (s Status) Terminal() bool {
	return s != Running
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	p, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = p
	return nil
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return Failed, fmt.Errorf("unknown status %q", name)
}

// StatusOf maps a termination cause to the status it produces. A nil error
// means the ray ran to the end time.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return Completed
	case errors.Is(err, ErrGrounded):
		return Grounded
	case errors.Is(err, ErrOutOfDomain):
		return ExitedDomain
	default:
		return Failed
	}
}
