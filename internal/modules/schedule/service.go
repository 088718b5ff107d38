package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mavina/internal/domain"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// endOfDay sorts after every HH:MM, so using it as notBefore closes all slots of a day.
const endOfDay = "24:00"

type DayAvailability struct {
	ProviderID   int64             `json:"provider_id"`
	Date         string            `json:"date"`
	Weekday      domain.Weekday    `json:"weekday"`
	WorkingHours domain.WorkingDay `json:"working_hours"`
	Slots        []Slot            `json:"slots"`
}

type Service struct {
	providers ProviderReader
	hours     WorkingHoursReader
	booked    BookedTimesReader
	step      time.Duration
	loc       *time.Location
	now       func() time.Time
}

func NewService(providers ProviderReader, hours WorkingHoursReader, booked BookedTimesReader, step time.Duration, loc *time.Location) *Service {
	if step <= 0 {
		step = DefaultStep
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		providers: providers,
		hours:     hours,
		booked:    booked,
		step:      step,
		loc:       loc,
		now:       time.Now,
	}
}

func (s *Service) Location() *time.Location { return s.loc }

func (s *Service) DaySlots(ctx context.Context, providerID int64, dateStr string) (*DayAvailability, error) {
	day, err := time.ParseInLocation(dateLayout, dateStr, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	if err := s.ensureProvider(ctx, providerID); err != nil {
		return nil, err
	}

	wh, err := s.hours.GetWorkingHours(ctx, providerID)
	if err != nil {
		return nil, err
	}
	weekday := domain.WeekdayOf(day)
	wd := wh.Day(weekday)

	idx, err := s.loadIndex(ctx, providerID, dateStr)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	notBefore := ""
	switch today := now.Format(dateLayout); {
	case dateStr < today:
		notBefore = endOfDay
	case dateStr == today:
		// a slot starting in the current minute has already begun
		notBefore = now.Format("15:04")
	}

	return &DayAvailability{
		ProviderID:   providerID,
		Date:         dateStr,
		Weekday:      weekday,
		WorkingHours: wd,
		Slots:        BuildDaySlots(wd, s.step, idx, providerID, dateStr, notBefore),
	}, nil
}

// CheckBookable validates that providerID can take a booking at date+clock and returns the
// resulting wall-clock instant in the service location.
func (s *Service) CheckBookable(ctx context.Context, providerID int64, dateStr, clock string) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, dateStr, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	minutes, err := domain.ParseClock(clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	wh, err := s.hours.GetWorkingHours(ctx, providerID)
	if err != nil {
		return time.Time{}, err
	}
	wd := wh.Day(domain.WeekdayOf(day))
	if !wd.Active {
		return time.Time{}, ErrDayClosed
	}
	if !OnGrid(wd, s.step, clock) {
		return time.Time{}, ErrOutsideHours
	}

	at := time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, s.loc)
	if !at.After(s.now()) {
		return time.Time{}, ErrSlotInPast
	}

	idx, err := s.loadIndex(ctx, providerID, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	if !IsAvailable(idx, providerID, dateStr, clock) {
		return time.Time{}, ErrSlotUnavailable
	}
	return at, nil
}

func (s *Service) ensureProvider(ctx context.Context, providerID int64) error {
	if s.providers == nil {
		return nil
	}
	if _, err := s.providers.GetByID(ctx, providerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProviderNotFound
		}
		return err
	}
	return nil
}

func (s *Service) loadIndex(ctx context.Context, providerID int64, dateStr string) (BookedSlotsIndex, error) {
	times, err := s.booked.BookedTimes(ctx, providerID, dateStr)
	if err != nil {
		return nil, err
	}
	idx := NewBookedSlotsIndex()
	for _, t := range times {
		idx.Add(providerID, dateStr, t)
	}
	return idx, nil
}
