package cascade

import (
	"errors"
	"fmt"
)

// ErrInvalidPool is wrapped by every precondition failure the core reports.
var ErrInvalidPool = errors.New("invalid graveyard composition")

// PreconditionError names the offending input. It is returned before any
// recursion starts; the core never computes a partial distribution.
type PreconditionError struct {
	Field  string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidPool, e.Field, e.Reason)
}

func (e *PreconditionError) Unwrap() error { return ErrInvalidPool }
