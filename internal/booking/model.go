package booking

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

// Terminal statuses have no transitions out.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Active statuses count toward double-booking conflicts.
func (s Status) Active() bool {
	return s != StatusCancelled
}

// Appointment is one reservation of a slot. Rows are never deleted;
// cancellation is a status.
type Appointment struct {
	ID         uuid.UUID
	PatientID  uuid.UUID
	DoctorID   uuid.UUID
	ClinicID   *uuid.UUID
	StartsAt   time.Time
	Status     Status
	Notes      *string
	RemindedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Detail is an appointment joined with the display fields both sides see.
type Detail struct {
	Appointment
	DoctorUserID    uuid.UUID
	DoctorName      string
	DoctorSpecialty *string
	PatientUserID   uuid.UUID
	PatientName     string
	PatientPhone    *string
	ClinicName      *string
	ClinicAddress   *string
	ClinicCity      *string
}

// Request is a patient's booking attempt.
type Request struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	ClinicID  *uuid.UUID
	StartsAt  time.Time
	Notes     *string
}
