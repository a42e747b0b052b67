package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Window is a recurring weekly availability interval for a doctor at one
// clinic. The interval is half-open: a 09:00-17:00 window covers 09:00 up to
// but not including 17:00.
type Window struct {
	ID           uuid.UUID
	DoctorID     uuid.UUID
	AssignmentID uuid.UUID
	Day          time.Weekday
	Start        TimeOfDay
	End          TimeOfDay
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Contains reports whether a wall-clock time falls inside the window.
func (w Window) Contains(t TimeOfDay) bool {
	return w.Start <= t && t < w.End
}

func (w Window) Describe(clinicName string) string {
	return fmt.Sprintf("%s - %s at %s", w.Start, w.End, clinicName)
}

// DayWindow is a window joined with the clinic it belongs to, the shape the
// slot generator and listings work with.
type DayWindow struct {
	Window
	ClinicID      uuid.UUID
	ClinicName    string
	ClinicAddress string
}

// Slot is a single bookable 30-minute start time derived from a window.
type Slot struct {
	Time          TimeOfDay
	StartsAt      time.Time
	ClinicID      uuid.UUID
	ClinicName    string
	ClinicAddress string
}

// Availability is a day's worth of generated slots. Note is set when the list
// is empty because the doctor has no active windows that day.
type Availability struct {
	Date  time.Time
	Day   time.Weekday
	Slots []Slot
	Note  string
}
