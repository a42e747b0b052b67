package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alexmed/clinic-booking/internal/directory"
	"github.com/alexmed/clinic-booking/internal/notification"
	redisclient "github.com/alexmed/clinic-booking/internal/redis"
	"github.com/alexmed/clinic-booking/internal/schedule"
)

// Directory is the subset of directory lookups the validator needs.
type Directory interface {
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*directory.Doctor, error)
	GetPatientByID(ctx context.Context, id uuid.UUID) (*directory.Patient, error)
	GetAssignment(ctx context.Context, doctorID, clinicID uuid.UUID) (*directory.ClinicAssignment, error)
}

// ScheduleSource supplies the active windows backing the schedule-membership
// check.
type ScheduleSource interface {
	ListForDay(ctx context.Context, doctorID uuid.UUID, day time.Weekday, clinicID *uuid.UUID) ([]schedule.DayWindow, error)
}

// Notifier delivers events without ever failing the calling operation.
type Notifier interface {
	Notify(ctx context.Context, ev notification.Event)
}

type Service struct {
	repo     Repository
	dir      Directory
	windows  ScheduleSource
	locker   redisclient.Locker
	notifier Notifier
	loc      *time.Location
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(repo Repository, dir Directory, windows ScheduleSource, locker redisclient.Locker, notifier Notifier, loc *time.Location, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		dir:      dir,
		windows:  windows,
		locker:   locker,
		notifier: notifier,
		loc:      loc,
		log:      log.With().Str("component", "booking").Logger(),
		now:      time.Now,
	}
}

// Book runs the full validation chain and reserves the slot. The checks run in
// a fixed order and stop at the first failure so error reporting is
// deterministic; the conflict checks and the insert are serialized per
// (doctor, instant) by the booking lock, with the storage unique indexes as
// the backstop.
func (s *Service) Book(ctx context.Context, req Request) (*Detail, error) {
	if req.DoctorID == uuid.Nil || req.StartsAt.IsZero() {
		return nil, &RuleError{Reason: "doctor and appointment date/time are required"}
	}

	now := s.now()
	if !req.StartsAt.After(now) {
		return nil, &RuleError{Reason: "appointment must be scheduled for a future date and time"}
	}

	doctor, err := s.dir.GetDoctorByID(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, directory.ErrDoctorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}
	if !doctor.Active {
		return nil, &RuleError{Reason: "doctor account is not active"}
	}

	if req.ClinicID != nil {
		if _, err := s.dir.GetAssignment(ctx, req.DoctorID, *req.ClinicID); err != nil {
			if errors.Is(err, directory.ErrAssignmentNotFound) {
				return nil, &RuleError{Reason: "doctor does not work at the specified clinic"}
			}
			return nil, fmt.Errorf("load clinic assignment: %w", err)
		}
	}

	patient, err := s.dir.GetPatientByID(ctx, req.PatientID)
	if err != nil {
		if errors.Is(err, directory.ErrPatientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}

	if err := s.checkWithinSchedule(ctx, req); err != nil {
		return nil, err
	}

	var created *Appointment

	err = s.locker.WithBookingLock(ctx, req.DoctorID, req.StartsAt, func(lockCtx context.Context) error {
		// Inside the critical section re-check both conflict invariants
		existing, err := s.repo.FindActiveByDoctorAt(lockCtx, req.DoctorID, req.StartsAt)
		if err != nil && !errors.Is(err, ErrAppointmentNotFound) {
			return fmt.Errorf("check doctor conflict: %w", err)
		}
		if existing != nil {
			return &ConflictError{Reason: "this time slot is already booked, please choose another time"}
		}

		existing, err = s.repo.FindActiveByPatientAt(lockCtx, req.PatientID, req.StartsAt)
		if err != nil && !errors.Is(err, ErrAppointmentNotFound) {
			return fmt.Errorf("check patient conflict: %w", err)
		}
		if existing != nil {
			return &ConflictError{Reason: "you already have an appointment at this time"}
		}

		appt, err := s.repo.Create(lockCtx, Appointment{
			PatientID: req.PatientID,
			DoctorID:  req.DoctorID,
			ClinicID:  req.ClinicID,
			StartsAt:  req.StartsAt,
			Status:    StatusPending,
			Notes:     req.Notes,
		})
		if err != nil {
			return err
		}

		created = appt
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, &ConflictError{Reason: "this time slot is currently being booked, please retry shortly"}
		}
		return nil, err
	}

	s.log.Info().
		Str("appointment_id", created.ID.String()).
		Str("doctor_id", req.DoctorID.String()).
		Str("patient_id", req.PatientID.String()).
		Time("starts_at", req.StartsAt).
		Msg("appointment booked")

	detail, err := s.repo.GetDetailByID(ctx, created.ID)
	if err != nil {
		return nil, fmt.Errorf("load created appointment: %w", err)
	}

	s.notifier.Notify(ctx, notification.AppointmentBooked{
		AppointmentID: detail.ID,
		DoctorID:      detail.DoctorID,
		PatientID:     detail.PatientID,
		DoctorUserID:  detail.DoctorUserID,
		PatientUserID: detail.PatientUserID,
		DoctorName:    doctor.DisplayName(),
		PatientName:   patient.DisplayName(),
		StartsAt:      detail.StartsAt,
	})

	return detail, nil
}

// checkWithinSchedule requires the requested wall-clock time to fall inside
// at least one active window for that weekday (clinic-scoped when the request
// names a clinic). Windows are half-open.
func (s *Service) checkWithinSchedule(ctx context.Context, req Request) error {
	local := req.StartsAt.In(s.loc)
	day := local.Weekday()
	wall := schedule.TimeOfDayFrom(req.StartsAt, s.loc)

	windows, err := s.windows.ListForDay(ctx, req.DoctorID, day, req.ClinicID)
	if err != nil {
		return fmt.Errorf("load schedule windows: %w", err)
	}
	if len(windows) == 0 {
		return &RuleError{Reason: "doctor is not available on this day"}
	}

	for _, w := range windows {
		if w.Contains(wall) {
			return nil
		}
	}

	available := make([]string, 0, len(windows))
	for _, w := range windows {
		available = append(available, w.Describe(w.ClinicName))
	}
	return &RuleError{Reason: fmt.Sprintf(
		"doctor is not available at %s, available times: %s",
		wall, strings.Join(available, ", "),
	)}
}

// Transition applies a status change on behalf of an actor. Ownership is
// checked first, then the transition table, then the conditional update; a
// concurrent transition that empties the update re-reads and reports the
// real current state.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, actorRole directory.Role, actorProfileID uuid.UUID, target Status, notes *string) (*Detail, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch actorRole {
	case directory.RolePatient:
		if appt.PatientID != actorProfileID {
			return nil, &PermissionError{Reason: "you can only manage your own appointments"}
		}
	case directory.RoleDoctor:
		if appt.DoctorID != actorProfileID {
			return nil, &PermissionError{Reason: "you can only manage your own appointments"}
		}
	default:
		return nil, &RuleError{Reason: "your role is not permitted to perform this status change"}
	}

	if err := Authorize(appt.Status, target, actorRole, appt.StartsAt, s.now()); err != nil {
		return nil, err
	}

	if _, err := s.repo.UpdateStatus(ctx, id, appt.Status, target, notes); err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			// Lost a race with another transition; report the state as it is now
			current, readErr := s.repo.GetByID(ctx, id)
			if readErr != nil {
				return nil, readErr
			}
			return nil, &TransitionError{From: current.Status, To: target}
		}
		return nil, fmt.Errorf("update appointment status: %w", err)
	}

	detail, err := s.repo.GetDetailByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load updated appointment: %w", err)
	}

	s.log.Info().
		Str("appointment_id", id.String()).
		Str("actor_role", string(actorRole)).
		Str("from", string(appt.Status)).
		Str("to", string(target)).
		Msg("appointment status changed")

	ev := notification.StatusChanged{
		AppointmentID: detail.ID,
		NewStatus:     string(target),
		ActorRole:     actorRole,
		DoctorID:      detail.DoctorID,
		PatientID:     detail.PatientID,
		StartsAt:      detail.StartsAt,
	}
	if actorRole == directory.RoleDoctor {
		ev.ActorName = detail.DoctorName
		ev.CounterUserID = detail.PatientUserID
		ev.CounterRole = directory.RolePatient
	} else {
		ev.ActorName = detail.PatientName
		ev.CounterUserID = detail.DoctorUserID
		ev.CounterRole = directory.RoleDoctor
	}
	s.notifier.Notify(ctx, ev)

	return detail, nil
}

// GetForActor fetches a single appointment, restricted to its own patient and
// doctor (admins may view any).
func (s *Service) GetForActor(ctx context.Context, id uuid.UUID, actorRole directory.Role, actorProfileID uuid.UUID) (*Detail, error) {
	detail, err := s.repo.GetDetailByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch actorRole {
	case directory.RolePatient:
		if detail.PatientID != actorProfileID {
			return nil, &PermissionError{Reason: "you can only view your own appointments"}
		}
	case directory.RoleDoctor:
		if detail.DoctorID != actorProfileID {
			return nil, &PermissionError{Reason: "you can only view your own appointments"}
		}
	case directory.RoleAdmin:
	}

	return detail, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID, status *Status, upcomingOnly bool, limit, offset int) ([]Detail, error) {
	filter := ListFilter{Status: status, Limit: limit, Offset: offset}
	if upcomingOnly {
		now := s.now()
		filter.From = &now
	}
	return s.repo.ListByPatient(ctx, patientID, filter)
}

// ListForDoctor returns a doctor's appointments, optionally narrowed to one
// calendar day in the service zone and one clinic.
func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID, status *Status, date *time.Time, clinicID *uuid.UUID, limit, offset int) ([]Detail, error) {
	filter := ListFilter{Status: status, ClinicID: clinicID, Limit: limit, Offset: offset}
	if date != nil {
		y, m, d := date.In(s.loc).Date()
		from := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
		to := from.AddDate(0, 0, 1)
		filter.From = &from
		filter.To = &to
	}
	return s.repo.ListByDoctor(ctx, doctorID, filter)
}

// SendReminders notifies patients of visits starting within the window and
// marks them so repeated runs stay quiet. Called periodically by the reminder
// worker.
func (s *Service) SendReminders(ctx context.Context, window time.Duration) (int, error) {
	now := s.now()

	due, err := s.repo.ListDueReminders(ctx, now, now.Add(window))
	if err != nil {
		return 0, fmt.Errorf("find due reminders: %w", err)
	}

	sent := 0
	for _, d := range due {
		clinicName := ""
		if d.ClinicName != nil {
			clinicName = *d.ClinicName
		}

		s.notifier.Notify(ctx, notification.AppointmentReminder{
			AppointmentID: d.ID,
			PatientUserID: d.PatientUserID,
			DoctorID:      d.DoctorID,
			DoctorName:    d.DoctorName,
			ClinicName:    clinicName,
			StartsAt:      d.StartsAt,
		})

		if err := s.repo.MarkReminded(ctx, d.ID, now); err != nil {
			s.log.Error().Err(err).
				Str("appointment_id", d.ID.String()).
				Msg("failed to mark appointment reminded")
			continue
		}
		sent++
	}

	return sent, nil
}
