package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/alexmed/clinic-booking/internal/booking"
	"github.com/alexmed/clinic-booking/internal/directory"
	"github.com/alexmed/clinic-booking/internal/notification"
	"github.com/alexmed/clinic-booking/internal/schedule"
)

// handleDomainError maps the domain error kinds onto HTTP statuses. Anything
// unrecognized is an unexpected storage or infrastructure failure and comes
// back as a 500.
func handleDomainError(w http.ResponseWriter, err error) {
	var bookingRule *booking.RuleError
	var scheduleRule *schedule.RuleError
	var permission *booking.PermissionError
	var conflict *booking.ConflictError
	var badTransition *booking.TransitionError

	switch {
	case errors.As(err, &bookingRule):
		writeError(w, http.StatusBadRequest, "invalid_request", bookingRule.Reason)
	case errors.As(err, &scheduleRule):
		writeError(w, http.StatusBadRequest, "invalid_request", scheduleRule.Reason)
	case errors.As(err, &permission):
		writeError(w, http.StatusForbidden, "forbidden", permission.Reason)
	case errors.As(err, &conflict):
		writeError(w, http.StatusConflict, "conflict", conflict.Reason)
	case errors.As(err, &badTransition):
		writeError(w, http.StatusConflict, "invalid_transition", badTransition.Error())
	case errors.Is(err, directory.ErrClinicAlreadyAssigned):
		writeError(w, http.StatusConflict, "clinic_already_assigned", err.Error())
	case errors.Is(err, directory.ErrAssignmentNotFound):
		writeError(w, http.StatusNotFound, "clinic_assignment_not_found", err.Error())
	case errors.Is(err, directory.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, directory.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, directory.ErrClinicNotFound):
		writeError(w, http.StatusNotFound, "clinic_not_found", err.Error())
	case errors.Is(err, booking.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, schedule.ErrWindowNotFound):
		writeError(w, http.StatusNotFound, "schedule_window_not_found", err.Error())
	case errors.Is(err, notification.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, "notification_not_found", err.Error())
	default:
		log.Error().Err(err).Msg("unhandled domain error")
		writeError(w, http.StatusInternalServerError, "internal_error", "an unexpected error occurred")
	}
}
