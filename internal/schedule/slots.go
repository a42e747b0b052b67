package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// SlotInterval is the fixed slot granularity.
const SlotInterval = 30 * time.Minute

const slotMinutes = TimeOfDay(30)

// Generator derives the bookable slots for a doctor on a calendar date from
// their recurring windows minus already-booked times.
type Generator struct {
	windows Repository
	appts   AppointmentSource
	loc     *time.Location
	now     func() time.Time
}

func NewGenerator(windows Repository, appts AppointmentSource, loc *time.Location) *Generator {
	return &Generator{
		windows: windows,
		appts:   appts,
		loc:     loc,
		now:     time.Now,
	}
}

// Slots returns the ordered bookable start times for the doctor on the given
// date, each tagged with the clinic its window belongs to.
func (g *Generator) Slots(ctx context.Context, doctorID uuid.UUID, date time.Time, clinicID *uuid.UUID) (*Availability, error) {
	local := date.In(g.loc)
	day := local.Weekday()

	av := &Availability{
		Date: local,
		Day:  day,
	}

	windows, err := g.windows.ListForDay(ctx, doctorID, day, clinicID)
	if err != nil {
		return nil, fmt.Errorf("load schedule windows: %w", err)
	}
	if len(windows) == 0 {
		av.Note = "doctor is not available on this day"
		return av, nil
	}

	y, m, d := local.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, g.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	bookedTimes, err := g.appts.ActiveStartTimes(ctx, doctorID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("load booked appointments: %w", err)
	}

	booked := make(map[TimeOfDay]struct{}, len(bookedTimes))
	for _, ts := range bookedTimes {
		booked[TimeOfDayFrom(ts, g.loc)] = struct{}{}
	}

	av.Slots = buildSlots(local, g.loc, windows, booked, g.now())
	return av, nil
}

type slotKey struct {
	t      TimeOfDay
	clinic uuid.UUID
}

// buildSlots is the pure generation step: enumerate each window at the fixed
// granularity over the half-open interval, drop booked and non-future times,
// and deduplicate overlapping windows by (time, clinic). Inverted or
// zero-length windows contribute nothing.
func buildSlots(date time.Time, loc *time.Location, windows []DayWindow, booked map[TimeOfDay]struct{}, now time.Time) []Slot {
	seen := make(map[slotKey]struct{})
	var slots []Slot

	for _, w := range windows {
		for t := w.Start; t < w.End; t += slotMinutes {
			if _, taken := booked[t]; taken {
				continue
			}

			startsAt := t.At(date, loc)
			if !startsAt.After(now) {
				continue
			}

			key := slotKey{t: t, clinic: w.ClinicID}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			slots = append(slots, Slot{
				Time:          t,
				StartsAt:      startsAt,
				ClinicID:      w.ClinicID,
				ClinicName:    w.ClinicName,
				ClinicAddress: w.ClinicAddress,
			})
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Time != slots[j].Time {
			return slots[i].Time < slots[j].Time
		}
		return slots[i].ClinicName < slots[j].ClinicName
	})

	return slots
}
