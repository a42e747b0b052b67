package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/alexmed/clinic-booking/internal/booking"
	"github.com/alexmed/clinic-booking/internal/directory"
	"github.com/alexmed/clinic-booking/internal/schedule"
)

func bookAppointmentHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())

		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if req.DoctorID == "" || req.DateTime == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "doctor_id and date_time are required")
			return
		}

		doctorID, err := uuid.Parse(req.DoctorID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
			return
		}

		startsAt, err := time.Parse(time.RFC3339, req.DateTime)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date_time", "date_time must be an RFC 3339 timestamp")
			return
		}

		var clinicID *uuid.UUID
		if req.ClinicID != nil {
			id, err := uuid.Parse(*req.ClinicID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_clinic_id", "clinic_id must be a valid UUID")
				return
			}
			clinicID = &id
		}

		detail, err := svc.Book(r.Context(), booking.Request{
			PatientID: actor.ProfileID,
			DoctorID:  doctorID,
			ClinicID:  clinicID,
			StartsAt:  startsAt,
			Notes:     req.Notes,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(detail, false))
	}
}

func listAppointmentsHandler(svc *booking.Service, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())
		q := r.URL.Query()

		var status *booking.Status
		if s := q.Get("status"); s != "" {
			parsed, ok := booking.ParseStatus(s)
			if !ok {
				writeError(w, http.StatusBadRequest, "invalid_status", "unknown appointment status")
				return
			}
			status = &parsed
		}

		limit, _ := strconv.Atoi(q.Get("limit"))
		offset, _ := strconv.Atoi(q.Get("offset"))

		var (
			details []booking.Detail
			err     error
		)

		switch actor.Role {
		case directory.RolePatient:
			upcoming := q.Get("upcoming") == "true"
			details, err = svc.ListForPatient(r.Context(), actor.ProfileID, status, upcoming, limit, offset)
		case directory.RoleDoctor:
			var date *time.Time
			if d := q.Get("date"); d != "" {
				parsed, parseErr := time.ParseInLocation("2006-01-02", d, loc)
				if parseErr != nil {
					writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
					return
				}
				date = &parsed
			}

			var clinicID *uuid.UUID
			if c := q.Get("clinic_id"); c != "" {
				id, parseErr := uuid.Parse(c)
				if parseErr != nil {
					writeError(w, http.StatusBadRequest, "invalid_clinic_id", "clinic_id must be a valid UUID")
					return
				}
				clinicID = &id
			}

			details, err = svc.ListForDoctor(r.Context(), actor.ProfileID, status, date, clinicID, limit, offset)
		default:
			writeError(w, http.StatusForbidden, "forbidden", "only patients and doctors have appointment listings")
			return
		}

		if err != nil {
			handleDomainError(w, err)
			return
		}

		includePatient := actor.Role == directory.RoleDoctor
		out := make([]AppointmentResponse, 0, len(details))
		for i := range details {
			out = append(out, toAppointmentResponse(&details[i], includePatient))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"count":        len(out),
			"appointments": out,
		})
	}
}

func getAppointmentHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		detail, err := svc.GetForActor(r.Context(), id, actor.Role, actor.ProfileID)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		includePatient := actor.Role != directory.RolePatient
		writeJSON(w, http.StatusOK, toAppointmentResponse(detail, includePatient))
	}
}

func transitionAppointmentHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		var req TransitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		target, ok := booking.ParseStatus(req.Status)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_status", "status must be one of CONFIRMED, COMPLETED, CANCELLED")
			return
		}

		detail, err := svc.Transition(r.Context(), id, actor.Role, actor.ProfileID, target, req.Notes)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		includePatient := actor.Role != directory.RolePatient
		writeJSON(w, http.StatusOK, toAppointmentResponse(detail, includePatient))
	}
}

func doctorSlotsHandler(gen *schedule.Generator, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a valid UUID")
			return
		}

		q := r.URL.Query()

		dateStr := q.Get("date")
		if dateStr == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "date query parameter is required")
			return
		}
		date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		var clinicID *uuid.UUID
		if c := q.Get("clinic_id"); c != "" {
			id, parseErr := uuid.Parse(c)
			if parseErr != nil {
				writeError(w, http.StatusBadRequest, "invalid_clinic_id", "clinic_id must be a valid UUID")
				return
			}
			clinicID = &id
		}

		av, err := gen.Slots(r.Context(), doctorID, date, clinicID)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAvailabilityResponse(av))
	}
}
