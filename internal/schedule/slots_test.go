package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func dayWindow(t *testing.T, doctorID uuid.UUID, clinicID uuid.UUID, name, start, end string) DayWindow {
	t.Helper()
	return DayWindow{
		Window: Window{
			ID:       uuid.New(),
			DoctorID: doctorID,
			Day:      time.Monday,
			Start:    mustTime(t, start),
			End:      mustTime(t, end),
			Active:   true,
		},
		ClinicID:   clinicID,
		ClinicName: name,
	}
}

// monday is a date far enough out that every slot is in the future.
var monday = time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)

func TestBuildSlotsFullDayWindow(t *testing.T) {
	doctorID := uuid.New()
	clinicID := uuid.New()
	windows := []DayWindow{dayWindow(t, doctorID, clinicID, "Central", "09:00", "17:00")}

	slots := buildSlots(monday, time.UTC, windows, nil, monday.Add(-time.Hour))

	// 8 hours at 30 minutes, end exclusive
	require.Len(t, slots, 16)
	assert.Equal(t, "09:00", slots[0].Time.String())
	assert.Equal(t, "16:30", slots[len(slots)-1].Time.String())

	for _, s := range slots {
		assert.Equal(t, clinicID, s.ClinicID)
		assert.Equal(t, monday.Day(), s.StartsAt.Day())
	}
}

func TestBuildSlotsSkipsBookedTimes(t *testing.T) {
	doctorID := uuid.New()
	windows := []DayWindow{dayWindow(t, doctorID, uuid.New(), "Central", "09:00", "17:00")}
	booked := map[TimeOfDay]struct{}{
		mustTime(t, "10:00"): {},
		mustTime(t, "14:30"): {},
	}

	slots := buildSlots(monday, time.UTC, windows, booked, monday.Add(-time.Hour))

	require.Len(t, slots, 14)
	for _, s := range slots {
		assert.NotEqual(t, "10:00", s.Time.String())
		assert.NotEqual(t, "14:30", s.Time.String())
	}
}

func TestBuildSlotsOnlyFutureTimes(t *testing.T) {
	doctorID := uuid.New()
	windows := []DayWindow{dayWindow(t, doctorID, uuid.New(), "Central", "09:00", "17:00")}

	// Midday: everything at or before 12:05 is gone
	now := time.Date(2026, time.September, 7, 12, 5, 0, 0, time.UTC)
	slots := buildSlots(monday, time.UTC, windows, nil, now)

	require.NotEmpty(t, slots)
	assert.Equal(t, "12:30", slots[0].Time.String())
}

func TestBuildSlotsDeduplicatesOverlappingWindows(t *testing.T) {
	doctorID := uuid.New()
	clinicID := uuid.New()
	windows := []DayWindow{
		dayWindow(t, doctorID, clinicID, "Central", "09:00", "12:00"),
		dayWindow(t, doctorID, clinicID, "Central", "10:00", "13:00"),
	}

	slots := buildSlots(monday, time.UTC, windows, nil, monday.Add(-time.Hour))

	// 09:00 through 12:30, each once
	require.Len(t, slots, 8)
	seen := map[TimeOfDay]int{}
	for _, s := range slots {
		seen[s.Time]++
	}
	for tod, n := range seen {
		assert.Equal(t, 1, n, tod.String())
	}
}

func TestBuildSlotsKeepsDistinctClinicsAtSameTime(t *testing.T) {
	doctorID := uuid.New()
	windows := []DayWindow{
		dayWindow(t, doctorID, uuid.New(), "Central", "09:00", "10:00"),
		dayWindow(t, doctorID, uuid.New(), "Annex", "09:00", "10:00"),
	}

	slots := buildSlots(monday, time.UTC, windows, nil, monday.Add(-time.Hour))

	require.Len(t, slots, 4)
	// Sorted by time, then clinic name
	assert.Equal(t, "Annex", slots[0].ClinicName)
	assert.Equal(t, "Central", slots[1].ClinicName)
}

func TestBuildSlotsInvertedWindowYieldsNothing(t *testing.T) {
	doctorID := uuid.New()
	windows := []DayWindow{dayWindow(t, doctorID, uuid.New(), "Central", "17:00", "09:00")}

	slots := buildSlots(monday, time.UTC, windows, nil, monday.Add(-time.Hour))
	assert.Empty(t, slots)
}

// Fakes for the generator

type fakeWindowSource struct {
	Repository
	windows []DayWindow
}

func (f *fakeWindowSource) ListForDay(ctx context.Context, doctorID uuid.UUID, day time.Weekday, clinicID *uuid.UUID) ([]DayWindow, error) {
	var out []DayWindow
	for _, w := range f.windows {
		if w.DoctorID != doctorID || w.Day != day {
			continue
		}
		if clinicID != nil && w.ClinicID != *clinicID {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

type fakeAppointmentSource struct {
	startTimes []time.Time
}

func (f *fakeAppointmentSource) ActiveStartTimes(ctx context.Context, doctorID uuid.UUID, dayStart, dayEnd time.Time) ([]time.Time, error) {
	return f.startTimes, nil
}

func TestGeneratorSlots(t *testing.T) {
	doctorID := uuid.New()
	windows := &fakeWindowSource{
		windows: []DayWindow{dayWindow(t, doctorID, uuid.New(), "Central", "09:00", "12:00")},
	}
	appts := &fakeAppointmentSource{
		startTimes: []time.Time{time.Date(2026, time.September, 7, 9, 30, 0, 0, time.UTC)},
	}

	gen := NewGenerator(windows, appts, time.UTC)
	gen.now = func() time.Time { return monday.Add(-time.Hour) }

	av, err := gen.Slots(context.Background(), doctorID, monday, nil)
	require.NoError(t, err)

	assert.Equal(t, time.Monday, av.Day)
	assert.Empty(t, av.Note)
	require.Len(t, av.Slots, 5)
	assert.Equal(t, "09:00", av.Slots[0].Time.String())
	assert.Equal(t, "10:00", av.Slots[1].Time.String())
}

func TestGeneratorSlotsScopedToClinic(t *testing.T) {
	doctorID := uuid.New()
	central := uuid.New()
	annex := uuid.New()
	windows := &fakeWindowSource{
		windows: []DayWindow{
			dayWindow(t, doctorID, central, "Central", "09:00", "12:00"),
			dayWindow(t, doctorID, annex, "Annex", "14:00", "17:00"),
		},
	}

	gen := NewGenerator(windows, &fakeAppointmentSource{}, time.UTC)
	gen.now = func() time.Time { return monday.Add(-time.Hour) }

	// Unscoped sees both clinics' windows
	av, err := gen.Slots(context.Background(), doctorID, monday, nil)
	require.NoError(t, err)
	require.Len(t, av.Slots, 12)

	// Scoped to the annex only its afternoon block remains
	av, err = gen.Slots(context.Background(), doctorID, monday, &annex)
	require.NoError(t, err)
	require.Len(t, av.Slots, 6)
	assert.Equal(t, "14:00", av.Slots[0].Time.String())
	for _, s := range av.Slots {
		assert.Equal(t, annex, s.ClinicID)
	}
}

func TestGeneratorSlotsNoWindows(t *testing.T) {
	gen := NewGenerator(&fakeWindowSource{}, &fakeAppointmentSource{}, time.UTC)
	gen.now = func() time.Time { return monday.Add(-time.Hour) }

	av, err := gen.Slots(context.Background(), uuid.New(), monday, nil)
	require.NoError(t, err)

	assert.Empty(t, av.Slots)
	assert.Equal(t, "doctor is not available on this day", av.Note)
}
