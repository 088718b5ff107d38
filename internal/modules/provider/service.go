package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mavina/internal/domain"
	"mavina/internal/pkg/validator"
	"mavina/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, f repository.ProviderFilters) ([]domain.Provider, int64, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id int64) (*ProviderDetail, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	wh, err := s.repo.GetWorkingHours(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProviderDetail{Provider: p, WorkingHours: wh}, nil
}

func (s *Service) WorkingHours(ctx context.Context, id int64) (domain.WorkingHours, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.repo.GetWorkingHours(ctx, id)
}

// UpdateWorkingHours replaces the schedule of the provider owned by userID.
// Weekdays missing from hours are stored as days off.
func (s *Service) UpdateWorkingHours(ctx context.Context, userID int64, hours domain.WorkingHours) (domain.WorkingHours, error) {
	p, err := s.own(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(hours) == 0 || len(hours) > len(domain.Weekdays) {
		return nil, fmt.Errorf("%w: hours must contain one to seven weekdays", ErrValidation)
	}
	for day, wd := range hours {
		if errs := validator.Validate(wd); errs != nil {
			return nil, fmt.Errorf("%w: %s has invalid fields %v", ErrValidation, day, errs)
		}
	}
	if err := hours.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	full := make(domain.WorkingHours, len(domain.Weekdays))
	for _, d := range domain.Weekdays {
		full[d] = hours.Day(d)
	}
	if err := s.repo.SaveWorkingHours(ctx, p.ID, full); err != nil {
		return nil, err
	}
	return full, nil
}

func (s *Service) Services(ctx context.Context, providerID int64) ([]domain.ServiceOffering, error) {
	out, err := s.repo.ListServices(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.ServiceOffering{}
	}
	return out, nil
}

func (s *Service) AddService(ctx context.Context, userID int64, req CreateServiceRequest) (*domain.ServiceOffering, error) {
	p, err := s.own(ctx, userID)
	if err != nil {
		return nil, err
	}
	so := &domain.ServiceOffering{
		ProviderID:      p.ID,
		Label:           strings.TrimSpace(req.Label),
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
	}
	if errs := validator.Validate(so); errs != nil {
		return nil, fmt.Errorf("%w: invalid fields %v", ErrValidation, errs)
	}
	if err := s.repo.CreateService(ctx, so); err != nil {
		return nil, err
	}
	return so, nil
}

func (s *Service) RemoveService(ctx context.Context, userID, serviceID int64) error {
	p, err := s.own(ctx, userID)
	if err != nil {
		return err
	}
	ok, err := s.repo.DeleteService(ctx, p.ID, serviceID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrServiceNotExists
	}
	return nil
}

func (s *Service) own(ctx context.Context, userID int64) (*domain.Provider, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotProvider
		}
		return nil, err
	}
	return p, nil
}
