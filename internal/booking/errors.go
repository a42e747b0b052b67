package booking

import (
	"errors"
	"fmt"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

// RuleError is a booking rule violation. The reason names the rule that was
// broken and is safe to show to the caller.
type RuleError struct {
	Reason string
}

func (e *RuleError) Error() string { return e.Reason }

// PermissionError means the actor is not allowed to touch this appointment.
type PermissionError struct {
	Reason string
}

func (e *PermissionError) Error() string { return e.Reason }

// ConflictError means the requested instant is already taken, whether caught
// by the pre-checks or by the storage uniqueness constraint.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

// TransitionError reports an illegal status change.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition appointment from %s to %s", e.From, e.To)
}
