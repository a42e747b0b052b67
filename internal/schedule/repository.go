package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrWindowNotFound = errors.New("schedule window not found")

type WindowFilter struct {
	ClinicID   *uuid.UUID
	ActiveOnly bool
}

// Repository stores recurring weekly windows.
type Repository interface {
	Create(ctx context.Context, w Window) (*Window, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Window, error)
	Update(ctx context.Context, w Window) (*Window, error)
	// Delete removes a window owned by the doctor; ErrWindowNotFound when the
	// window does not exist or belongs to someone else.
	Delete(ctx context.Context, id, doctorID uuid.UUID) error

	ListByDoctor(ctx context.Context, doctorID uuid.UUID, filter WindowFilter) ([]DayWindow, error)
	// ListForDay returns the active windows backing slot generation and the
	// schedule-membership booking check.
	ListForDay(ctx context.Context, doctorID uuid.UUID, day time.Weekday, clinicID *uuid.UUID) ([]DayWindow, error)
}

// AppointmentSource supplies the booked start times the generator subtracts
// from the raw slot grid. Implemented by the booking repository.
type AppointmentSource interface {
	ActiveStartTimes(ctx context.Context, doctorID uuid.UUID, dayStart, dayEnd time.Time) ([]time.Time, error)
}
