package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alexmed/clinic-booking/internal/directory"
)

// RuleError is a window-management rule violation, safe to show to the caller.
type RuleError struct {
	Reason string
}

func (e *RuleError) Error() string { return e.Reason }

// AssignmentSource resolves doctor/clinic memberships. Implemented by the
// directory repository.
type AssignmentSource interface {
	GetAssignment(ctx context.Context, doctorID, clinicID uuid.UUID) (*directory.ClinicAssignment, error)
}

// WindowInput is one window to create, already converted to canonical types.
type WindowInput struct {
	ClinicID uuid.UUID
	Day      time.Weekday
	Start    TimeOfDay
	End      TimeOfDay
}

// WindowPatch carries the fields a doctor may change on an existing window.
type WindowPatch struct {
	Day    *time.Weekday
	Start  *TimeOfDay
	End    *TimeOfDay
	Active *bool
}

type Service struct {
	repo        Repository
	assignments AssignmentSource
	log         zerolog.Logger
}

func NewService(repo Repository, assignments AssignmentSource, log zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		assignments: assignments,
		log:         log.With().Str("component", "schedule").Logger(),
	}
}

func validateInput(in WindowInput) error {
	if in.Day < time.Sunday || in.Day > time.Saturday {
		return &RuleError{Reason: "day of week must be between 0 (Sunday) and 6 (Saturday)"}
	}
	if in.Start >= in.End {
		return &RuleError{Reason: "start time must be before end time"}
	}
	return nil
}

func (s *Service) resolveAssignment(ctx context.Context, doctorID, clinicID uuid.UUID) (*directory.ClinicAssignment, error) {
	assignment, err := s.assignments.GetAssignment(ctx, doctorID, clinicID)
	if err != nil {
		if errors.Is(err, directory.ErrAssignmentNotFound) {
			return nil, &RuleError{Reason: "you are not associated with this clinic"}
		}
		return nil, fmt.Errorf("resolve clinic assignment: %w", err)
	}
	return assignment, nil
}

// CreateWindow adds a single recurring window for the doctor at one of their
// clinics.
func (s *Service) CreateWindow(ctx context.Context, doctorID uuid.UUID, in WindowInput) (*Window, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	assignment, err := s.resolveAssignment(ctx, doctorID, in.ClinicID)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, Window{
		DoctorID:     doctorID,
		AssignmentID: assignment.ID,
		Day:          in.Day,
		Start:        in.Start,
		End:          in.End,
		Active:       true,
	})
	if err != nil {
		return nil, fmt.Errorf("create schedule window: %w", err)
	}

	s.log.Info().
		Str("doctor_id", doctorID.String()).
		Str("window_id", created.ID.String()).
		Str("day", created.Day.String()).
		Msg("schedule window created")

	return created, nil
}

// CreateWeek creates a batch of windows. Every entry is validated before any
// window is written so a bad entry rejects the whole batch.
func (s *Service) CreateWeek(ctx context.Context, doctorID uuid.UUID, entries []WindowInput) ([]Window, error) {
	if len(entries) == 0 {
		return nil, &RuleError{Reason: "at least one schedule entry is required"}
	}

	assignments := make([]uuid.UUID, len(entries))
	for i, in := range entries {
		if err := validateInput(in); err != nil {
			return nil, err
		}
		assignment, err := s.resolveAssignment(ctx, doctorID, in.ClinicID)
		if err != nil {
			return nil, err
		}
		assignments[i] = assignment.ID
	}

	created := make([]Window, 0, len(entries))
	for i, in := range entries {
		w, err := s.repo.Create(ctx, Window{
			DoctorID:     doctorID,
			AssignmentID: assignments[i],
			Day:          in.Day,
			Start:        in.Start,
			End:          in.End,
			Active:       true,
		})
		if err != nil {
			return nil, fmt.Errorf("create schedule window: %w", err)
		}
		created = append(created, *w)
	}

	return created, nil
}

func (s *Service) UpdateWindow(ctx context.Context, doctorID, id uuid.UUID, patch WindowPatch) (*Window, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.DoctorID != doctorID {
		// Not revealing other doctors' windows
		return nil, ErrWindowNotFound
	}

	if patch.Day != nil {
		w.Day = *patch.Day
	}
	if patch.Start != nil {
		w.Start = *patch.Start
	}
	if patch.End != nil {
		w.End = *patch.End
	}
	if patch.Active != nil {
		w.Active = *patch.Active
	}

	if w.Day < time.Sunday || w.Day > time.Saturday {
		return nil, &RuleError{Reason: "day of week must be between 0 (Sunday) and 6 (Saturday)"}
	}
	if w.Start >= w.End {
		return nil, &RuleError{Reason: "start time must be before end time"}
	}

	updated, err := s.repo.Update(ctx, *w)
	if err != nil {
		return nil, fmt.Errorf("update schedule window: %w", err)
	}
	return updated, nil
}

func (s *Service) DeleteWindow(ctx context.Context, doctorID, id uuid.UUID) error {
	return s.repo.Delete(ctx, id, doctorID)
}

func (s *Service) ListWindows(ctx context.Context, doctorID uuid.UUID, filter WindowFilter) ([]DayWindow, error) {
	return s.repo.ListByDoctor(ctx, doctorID, filter)
}
