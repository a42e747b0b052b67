package booking

import (
	"time"

	"github.com/alexmed/clinic-booking/internal/directory"
)

type transition struct {
	From Status
	To   Status
}

// allowedActors is the whole status state machine: a (from, to) pair absent
// from the table is illegal for everyone. PENDING is the sole initial state,
// COMPLETED and CANCELLED are terminal.
var allowedActors = map[transition][]directory.Role{
	{StatusPending, StatusConfirmed}:   {directory.RoleDoctor},
	{StatusPending, StatusCancelled}:   {directory.RoleDoctor, directory.RolePatient},
	{StatusConfirmed, StatusCompleted}: {directory.RoleDoctor},
	{StatusConfirmed, StatusCancelled}: {directory.RoleDoctor, directory.RolePatient},
}

// Authorize checks a requested status change against the transition table and
// its preconditions. A patient may only cancel an appointment that is still in
// the future.
func Authorize(from, to Status, actor directory.Role, startsAt, now time.Time) error {
	actors, ok := allowedActors[transition{From: from, To: to}]
	if !ok {
		return &TransitionError{From: from, To: to}
	}

	permitted := false
	for _, role := range actors {
		if role == actor {
			permitted = true
			break
		}
	}
	if !permitted {
		return &RuleError{Reason: "your role is not permitted to perform this status change"}
	}

	if actor == directory.RolePatient && to == StatusCancelled && !startsAt.After(now) {
		return &RuleError{Reason: "cannot cancel past appointments"}
	}

	return nil
}
