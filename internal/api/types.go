package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/alexmed/clinic-booking/internal/booking"
	"github.com/alexmed/clinic-booking/internal/directory"
	"github.com/alexmed/clinic-booking/internal/notification"
	"github.com/alexmed/clinic-booking/internal/schedule"
)

// -- Requests --

type BookAppointmentRequest struct {
	DoctorID string  `json:"doctor_id"`
	ClinicID *string `json:"clinic_id,omitempty"`
	DateTime string  `json:"date_time"`
	Notes    *string `json:"notes,omitempty"`
}

type TransitionRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

type CreateWindowRequest struct {
	ClinicID  string `json:"clinic_id"`
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type CreateWeekRequest struct {
	Windows []CreateWindowRequest `json:"windows"`
}

type UpdateWindowRequest struct {
	DayOfWeek *string `json:"day_of_week,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

type AddClinicRequest struct {
	ClinicID        string `json:"clinic_id"`
	ConsultationFee *int64 `json:"consultation_fee,omitempty"`
}

type UpdateClinicFeeRequest struct {
	ConsultationFee *int64 `json:"consultation_fee"`
}

// -- Responses --

type ClinicRef struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address,omitempty"`
	City    string    `json:"city,omitempty"`
}

type DoctorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Specialty *string   `json:"specialty,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
}

type ClinicResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
	City    string    `json:"city"`
	Phone   *string   `json:"phone,omitempty"`
}

type DoctorClinicResponse struct {
	Clinic          ClinicResponse `json:"clinic"`
	ConsultationFee *int64         `json:"consultation_fee,omitempty"`
	AssignedAt      time.Time      `json:"assigned_at"`
}

type PatientRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone *string   `json:"phone,omitempty"`
}

type AppointmentResponse struct {
	ID        uuid.UUID   `json:"id"`
	DateTime  time.Time   `json:"date_time"`
	Status    string      `json:"status"`
	Notes     *string     `json:"notes,omitempty"`
	Doctor    DoctorRef   `json:"doctor"`
	Patient   *PatientRef `json:"patient,omitempty"`
	Clinic    *ClinicRef  `json:"clinic,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type DoctorRef struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Specialty *string   `json:"specialty,omitempty"`
}

type SlotResponse struct {
	Time     string    `json:"time"`
	DateTime time.Time `json:"date_time"`
	Clinic   ClinicRef `json:"clinic"`
}

type AvailabilityResponse struct {
	Date           string         `json:"date"`
	DayOfWeek      string         `json:"day_of_week"`
	AvailableSlots []SlotResponse `json:"available_slots"`
	TotalSlots     int            `json:"total_slots"`
	Message        string         `json:"message,omitempty"`
}

type WindowResponse struct {
	ID        uuid.UUID  `json:"id"`
	Clinic    string     `json:"clinic,omitempty"`
	ClinicID  *uuid.UUID `json:"clinic_id,omitempty"`
	DayOfWeek string     `json:"day_of_week"`
	StartTime string     `json:"start_time"`
	EndTime   string     `json:"end_time"`
	IsActive  bool       `json:"is_active"`
}

type NotificationResponse struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Priority  string          `json:"priority"`
	Category  string          `json:"category,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	IsRead    bool            `json:"is_read"`
	CreatedAt time.Time       `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
	Unread        int                    `json:"unread"`
}

// -- Converters --

func toAppointmentResponse(d *booking.Detail, includePatient bool) AppointmentResponse {
	resp := AppointmentResponse{
		ID:       d.ID,
		DateTime: d.StartsAt,
		Status:   string(d.Status),
		Notes:    d.Notes,
		Doctor: DoctorRef{
			ID:        d.DoctorID,
			Name:      d.DoctorName,
			Specialty: d.DoctorSpecialty,
		},
		CreatedAt: d.CreatedAt,
	}

	if includePatient {
		resp.Patient = &PatientRef{
			ID:    d.PatientID,
			Name:  d.PatientName,
			Phone: d.PatientPhone,
		}
	}

	if d.ClinicID != nil && d.ClinicName != nil {
		clinic := ClinicRef{ID: *d.ClinicID, Name: *d.ClinicName}
		if d.ClinicAddress != nil {
			clinic.Address = *d.ClinicAddress
		}
		if d.ClinicCity != nil {
			clinic.City = *d.ClinicCity
		}
		resp.Clinic = &clinic
	}

	return resp
}

func toAvailabilityResponse(av *schedule.Availability) AvailabilityResponse {
	resp := AvailabilityResponse{
		Date:           av.Date.Format("2006-01-02"),
		DayOfWeek:      av.Day.String(),
		AvailableSlots: make([]SlotResponse, 0, len(av.Slots)),
		TotalSlots:     len(av.Slots),
		Message:        av.Note,
	}

	for _, s := range av.Slots {
		resp.AvailableSlots = append(resp.AvailableSlots, SlotResponse{
			Time:     s.Time.String(),
			DateTime: s.StartsAt,
			Clinic: ClinicRef{
				ID:      s.ClinicID,
				Name:    s.ClinicName,
				Address: s.ClinicAddress,
			},
		})
	}

	return resp
}

func toWindowResponse(w *schedule.Window, clinicName string, clinicID *uuid.UUID) WindowResponse {
	return WindowResponse{
		ID:        w.ID,
		Clinic:    clinicName,
		ClinicID:  clinicID,
		DayOfWeek: w.Day.String(),
		StartTime: w.Start.String(),
		EndTime:   w.End.String(),
		IsActive:  w.Active,
	}
}

func toDoctorResponse(d directory.Doctor) DoctorResponse {
	return DoctorResponse{
		ID:        d.ID,
		Name:      d.DisplayName(),
		Specialty: d.Specialty,
		Bio:       d.Bio,
	}
}

func toClinicResponse(c directory.Clinic) ClinicResponse {
	return ClinicResponse{
		ID:      c.ID,
		Name:    c.Name,
		Address: c.Address,
		City:    c.City,
		Phone:   c.Phone,
	}
}

func toDoctorClinicResponse(dc directory.DoctorClinic) DoctorClinicResponse {
	return DoctorClinicResponse{
		Clinic:          toClinicResponse(dc.Clinic),
		ConsultationFee: dc.Assignment.ConsultationFee,
		AssignedAt:      dc.Assignment.CreatedAt,
	}
}

func toNotificationResponse(n notification.UserNotification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Priority:  string(n.Priority),
		Category:  string(n.Category),
		Data:      n.Data,
		IsRead:    n.Read,
		CreatedAt: n.CreatedAt,
	}
}
