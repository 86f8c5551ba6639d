package client

import (
	"errors"
	"fmt"
)

// ErrAuthRequired is returned by mutations attempted without an
// authenticated user. Callers should prompt for sign-in and abort.
var ErrAuthRequired = errors.New("authentication required")

// RemoteError wraps a store rejection. The underlying message is
// surfaced verbatim; the client performs no retries.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// remoteErr wraps a store error with the failing operation name.
func remoteErr(op string, err error) error {
	return &RemoteError{Op: op, Err: err}
}

// PartialCompositeFailure reports a multi-step write where an early
// step landed and a later step failed. EntityID names the row created
// by the successful step; Compensated reports whether the client
// managed to undo it.
type PartialCompositeFailure struct {
	Op          string
	EntityID    string
	StepsDone   int
	Compensated bool
	Err         error
}

func (e *PartialCompositeFailure) Error() string {
	if e.Compensated {
		return fmt.Sprintf("%s: step %d failed (rolled back): %v", e.Op, e.StepsDone+1, e.Err)
	}
	return fmt.Sprintf("%s: step %d failed, entity %s left in degraded state: %v",
		e.Op, e.StepsDone+1, e.EntityID, e.Err)
}

func (e *PartialCompositeFailure) Unwrap() error { return e.Err }
