package provider

import (
	"context"

	"mavina/internal/domain"
	"mavina/internal/repository"
)

type Repository interface {
	List(ctx context.Context, f repository.ProviderFilters) ([]domain.Provider, int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Provider, error)
	GetWorkingHours(ctx context.Context, providerID int64) (domain.WorkingHours, error)
	SaveWorkingHours(ctx context.Context, providerID int64, hours domain.WorkingHours) error
	ListServices(ctx context.Context, providerID int64) ([]domain.ServiceOffering, error)
	CreateService(ctx context.Context, s *domain.ServiceOffering) error
	DeleteService(ctx context.Context, providerID, serviceID int64) (bool, error)
}
