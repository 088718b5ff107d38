package loyalty

import (
	"context"
	"time"
)

type CompletedCounter interface {
	CountCompletedBetween(ctx context.Context, customerID int64, from, to time.Time) (int64, error)
}

type Status struct {
	Month        string `json:"month"`
	WashCount    int    `json:"wash_count"`
	Tier         Tier   `json:"tier"`
	Badge        *Badge `json:"badge,omitempty"`
	NextBadge    *Badge `json:"next_badge,omitempty"`
	WashesToNext int    `json:"washes_to_next,omitempty"`
}

type Service struct {
	counter CompletedCounter
	loc     *time.Location
	now     func() time.Time
}

func NewService(counter CompletedCounter, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{counter: counter, loc: loc, now: time.Now}
}

// MonthlyStatus counts the customer's completed washes in the current calendar month.
func (s *Service) MonthlyStatus(ctx context.Context, customerID int64) (*Status, error) {
	now := s.now().In(s.loc)
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 1, 0)

	n, err := s.counter.CountCompletedBetween(ctx, customerID, from, to)
	if err != nil {
		return nil, err
	}
	count := int(n)

	st := &Status{
		Month:     from.Format("2006-01"),
		WashCount: count,
		Tier:      TierFor(count),
	}
	if b, ok := BadgeFor(st.Tier); ok {
		st.Badge = &b
	}
	if next, missing, ok := NextBadge(count); ok {
		st.NextBadge = &next
		st.WashesToNext = missing
	}
	return st, nil
}
