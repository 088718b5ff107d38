package schedule

import (
	"context"

	"mavina/internal/domain"
)

type WorkingHoursReader interface {
	GetWorkingHours(ctx context.Context, providerID int64) (domain.WorkingHours, error)
}

type BookedTimesReader interface {
	BookedTimes(ctx context.Context, providerID int64, date string) ([]string, error)
}

type ProviderReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
}
