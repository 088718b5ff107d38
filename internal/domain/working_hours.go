package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists the schedule keys in display order (week starts on Monday).
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (w Weekday) Valid() bool {
	for _, d := range Weekdays {
		if d == w {
			return true
		}
	}
	return false
}

func WeekdayOf(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// WorkingDay is one weekday of a provider schedule. Times are ignored when Active is false.
type WorkingDay struct {
	Active    bool   `json:"active"`
	StartTime string `json:"start_time" validate:"omitempty,hhmm"`
	EndTime   string `json:"end_time" validate:"omitempty,hhmm"`
}

type WorkingHours map[Weekday]WorkingDay

// Day returns the schedule for w. A missing entry is treated as a day off.
func (wh WorkingHours) Day(w Weekday) WorkingDay {
	if wh == nil {
		return WorkingDay{}
	}
	return wh[w]
}

// Validate checks weekday keys and, for active days, that both times parse and start < end.
func (wh WorkingHours) Validate() error {
	for day, v := range wh {
		if !day.Valid() {
			return fmt.Errorf("unknown weekday %q", day)
		}
		if !v.Active {
			continue
		}
		start, err := ParseClock(v.StartTime)
		if err != nil {
			return fmt.Errorf("%s start_time: %w", day, err)
		}
		end, err := ParseClock(v.EndTime)
		if err != nil {
			return fmt.Errorf("%s end_time: %w", day, err)
		}
		if end <= start {
			return fmt.Errorf("%s end_time must be after start_time", day)
		}
	}
	return nil
}

// DefaultWorkingHours is Monday-Saturday 09:00-18:00 with Sunday off.
func DefaultWorkingHours() WorkingHours {
	wh := make(WorkingHours, len(Weekdays))
	for _, d := range Weekdays {
		wh[d] = WorkingDay{
			Active:    d != Sunday,
			StartTime: "09:00",
			EndTime:   "18:00",
		}
	}
	return wh
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
