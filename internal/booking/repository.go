package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ListFilter struct {
	Status   *Status
	From     *time.Time
	To       *time.Time
	ClinicID *uuid.UUID
	Limit    int
	Offset   int
}

// Repository contains all DB interactions needed by the booking service.
type Repository interface {
	// Create inserts a new appointment. Unique-index violations on the
	// doctor/patient active-appointment indexes come back as ConflictError,
	// never as a raw storage error.
	Create(ctx context.Context, appt Appointment) (*Appointment, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	GetDetailByID(ctx context.Context, id uuid.UUID) (*Detail, error)

	// UpdateStatus is conditional on the current status so a concurrent
	// transition cannot be silently overwritten; ErrAppointmentNotFound when
	// no row matched.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, notes *string) (*Appointment, error)

	// Conflict pre-checks
	FindActiveByDoctorAt(ctx context.Context, doctorID uuid.UUID, at time.Time) (*Appointment, error)
	FindActiveByPatientAt(ctx context.Context, patientID uuid.UUID, at time.Time) (*Appointment, error)

	// Slot generation
	ActiveStartTimes(ctx context.Context, doctorID uuid.UUID, dayStart, dayEnd time.Time) ([]time.Time, error)

	ListByPatient(ctx context.Context, patientID uuid.UUID, filter ListFilter) ([]Detail, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, filter ListFilter) ([]Detail, error)

	// Reminder worker
	ListDueReminders(ctx context.Context, from, until time.Time) ([]Detail, error)
	MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error
}
