// Package notification records persistent per-user notifications. Producers
// emit typed events; the JSON payload shape exists only at the storage
// boundary.
package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexmed/clinic-booking/internal/directory"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Category string

const (
	CategoryAppointments Category = "APPOINTMENTS"
	CategorySchedule     Category = "SCHEDULE"
	CategorySystem       Category = "SYSTEM"
)

// Notification is the write model: Data stays a typed payload until the store
// serializes it.
type Notification struct {
	UserID   uuid.UUID
	Role     directory.Role
	Type     string
	Title    string
	Message  string
	Priority Priority
	Category Category
	Data     any
}

// AppointmentPayload is the structured data attached to appointment
// notifications.
type AppointmentPayload struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	DoctorID      uuid.UUID `json:"doctor_id,omitempty"`
	PatientID     uuid.UUID `json:"patient_id,omitempty"`
	StartsAt      time.Time `json:"starts_at"`
	Status        string    `json:"status,omitempty"`
}

// Event is one domain occurrence worth telling users about.
type Event interface {
	render() []Notification
}

// AppointmentBooked notifies both parties of a fresh booking.
type AppointmentBooked struct {
	AppointmentID uuid.UUID
	DoctorID      uuid.UUID
	PatientID     uuid.UUID
	DoctorUserID  uuid.UUID
	PatientUserID uuid.UUID
	DoctorName    string
	PatientName   string
	StartsAt      time.Time
}

func (e AppointmentBooked) render() []Notification {
	when := e.StartsAt.Format("Mon, 02 Jan 2006 15:04")
	return []Notification{
		{
			UserID:   e.PatientUserID,
			Role:     directory.RolePatient,
			Type:     "APPOINTMENT_BOOKED",
			Title:    "Appointment Booked",
			Message:  fmt.Sprintf("Your appointment with %s is scheduled for %s", e.DoctorName, when),
			Priority: PriorityMedium,
			Category: CategoryAppointments,
			Data: AppointmentPayload{
				AppointmentID: e.AppointmentID,
				DoctorID:      e.DoctorID,
				StartsAt:      e.StartsAt,
			},
		},
		{
			UserID:   e.DoctorUserID,
			Role:     directory.RoleDoctor,
			Type:     "NEW_APPOINTMENT",
			Title:    "New Appointment Request",
			Message:  fmt.Sprintf("%s booked an appointment for %s", e.PatientName, when),
			Priority: PriorityHigh,
			Category: CategoryAppointments,
			Data: AppointmentPayload{
				AppointmentID: e.AppointmentID,
				PatientID:     e.PatientID,
				StartsAt:      e.StartsAt,
			},
		},
	}
}

// StatusChanged notifies the counter-party of a status transition: a doctor
// update notifies the patient and a patient cancellation notifies the doctor.
type StatusChanged struct {
	AppointmentID   uuid.UUID
	NewStatus       string // CONFIRMED, COMPLETED or CANCELLED
	ActorRole       directory.Role
	ActorName       string
	CounterUserID   uuid.UUID
	CounterRole     directory.Role
	DoctorID        uuid.UUID
	PatientID       uuid.UUID
	StartsAt        time.Time
}

func (e StatusChanged) render() []Notification {
	verbs := map[string]string{
		"CONFIRMED": "confirmed",
		"COMPLETED": "completed",
		"CANCELLED": "cancelled",
	}
	verb, ok := verbs[e.NewStatus]
	if !ok {
		verb = "updated"
	}

	priority := PriorityMedium
	if e.NewStatus == "CANCELLED" {
		priority = PriorityHigh
	}

	when := e.StartsAt.Format("Mon, 02 Jan 2006 15:04")

	return []Notification{{
		UserID:   e.CounterUserID,
		Role:     e.CounterRole,
		Type:     "APPOINTMENT_" + e.NewStatus,
		Title:    "Appointment " + verb,
		Message:  fmt.Sprintf("%s %s your appointment on %s", e.ActorName, verb, when),
		Priority: priority,
		Category: CategoryAppointments,
		Data: AppointmentPayload{
			AppointmentID: e.AppointmentID,
			DoctorID:      e.DoctorID,
			PatientID:     e.PatientID,
			StartsAt:      e.StartsAt,
			Status:        e.NewStatus,
		},
	}}
}

// AppointmentReminder is emitted by the reminder worker ahead of a visit.
type AppointmentReminder struct {
	AppointmentID uuid.UUID
	PatientUserID uuid.UUID
	DoctorID      uuid.UUID
	DoctorName    string
	ClinicName    string
	StartsAt      time.Time
}

func (e AppointmentReminder) render() []Notification {
	when := e.StartsAt.Format("Mon, 02 Jan 2006 15:04")
	msg := fmt.Sprintf("Reminder: your appointment with %s is on %s", e.DoctorName, when)
	if e.ClinicName != "" {
		msg = fmt.Sprintf("%s at %s", msg, e.ClinicName)
	}

	return []Notification{{
		UserID:   e.PatientUserID,
		Role:     directory.RolePatient,
		Type:     "APPOINTMENT_REMINDER",
		Title:    "Upcoming Appointment",
		Message:  msg,
		Priority: PriorityHigh,
		Category: CategoryAppointments,
		Data: AppointmentPayload{
			AppointmentID: e.AppointmentID,
			DoctorID:      e.DoctorID,
			StartsAt:      e.StartsAt,
		},
	}}
}
