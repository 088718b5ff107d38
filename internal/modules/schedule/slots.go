package schedule

import (
	"time"

	"mavina/internal/domain"
)

const DefaultStep = 30 * time.Minute

// GenerateSlots returns the bookable HH:MM start times of a working day, from StartTime up to
// and including EndTime when EndTime lies on the step grid. Inactive or unparsable days yield nil.
func GenerateSlots(day domain.WorkingDay, step time.Duration) []string {
	if !day.Active {
		return nil
	}
	if step <= 0 {
		step = DefaultStep
	}
	start, err := domain.ParseClock(day.StartTime)
	if err != nil {
		return nil
	}
	end, err := domain.ParseClock(day.EndTime)
	if err != nil || end < start {
		return nil
	}

	stepMin := int(step / time.Minute)
	if stepMin <= 0 {
		return nil
	}

	out := make([]string, 0, (end-start)/stepMin+1)
	for m := start; m <= end; m += stepMin {
		out = append(out, domain.FormatClock(m))
	}
	return out
}

type slotKey struct {
	providerID int64
	date       string
	clock      string
}

// BookedSlotsIndex is the set of reserved (provider, date, time) triples.
type BookedSlotsIndex map[slotKey]struct{}

func NewBookedSlotsIndex() BookedSlotsIndex {
	return make(BookedSlotsIndex)
}

func (idx BookedSlotsIndex) Add(providerID int64, date, clock string) {
	idx[slotKey{providerID: providerID, date: date, clock: clock}] = struct{}{}
}

func (idx BookedSlotsIndex) Contains(providerID int64, date, clock string) bool {
	_, ok := idx[slotKey{providerID: providerID, date: date, clock: clock}]
	return ok
}

// IsAvailable is the pure lookup: a time is unavailable once booked for that provider and date.
func IsAvailable(idx BookedSlotsIndex, providerID int64, date, clock string) bool {
	return !idx.Contains(providerID, date, clock)
}

type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// BuildDaySlots combines the generated grid with the booked index. Slots at or before
// notBefore (HH:MM, empty to disable) are reported unavailable.
func BuildDaySlots(day domain.WorkingDay, step time.Duration, idx BookedSlotsIndex, providerID int64, date, notBefore string) []Slot {
	times := GenerateSlots(day, step)
	out := make([]Slot, 0, len(times))
	for _, t := range times {
		available := IsAvailable(idx, providerID, date, t)
		if available && notBefore != "" && t <= notBefore {
			available = false
		}
		out = append(out, Slot{Time: t, Available: available})
	}
	return out
}

// OnGrid reports whether clock is one of the generated slots of the day.
func OnGrid(day domain.WorkingDay, step time.Duration, clock string) bool {
	for _, t := range GenerateSlots(day, step) {
		if t == clock {
			return true
		}
	}
	return false
}
