package vehicle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mavina/internal/domain"
)

const minYear = 1950

type Repository interface {
	Create(ctx context.Context, v *domain.Vehicle) error
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Vehicle, error)
	Delete(ctx context.Context, customerID, id int64) (bool, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) List(ctx context.Context, customerID int64) ([]domain.Vehicle, error) {
	out, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Vehicle{}
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, customerID int64, req CreateVehicleRequest) (*domain.Vehicle, error) {
	v := &domain.Vehicle{
		CustomerID:   customerID,
		Brand:        strings.TrimSpace(req.Brand),
		Model:        strings.TrimSpace(req.Model),
		LicensePlate: NormalizePlate(req.LicensePlate),
		Type:         domain.VehicleType(strings.ToLower(strings.TrimSpace(req.Type))),
		Color:        strings.TrimSpace(req.Color),
		Year:         req.Year,
	}

	if v.Brand == "" || v.Model == "" {
		return nil, fmt.Errorf("%w: brand and model are required", ErrValidation)
	}
	if v.LicensePlate == "" {
		return nil, fmt.Errorf("%w: license plate is required", ErrValidation)
	}
	if !v.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown vehicle type %q", ErrValidation, req.Type)
	}
	if maxYear := s.now().Year() + 1; v.Year < minYear || v.Year > maxYear {
		return nil, fmt.Errorf("%w: year must be between %d and %d", ErrValidation, minYear, maxYear)
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) Delete(ctx context.Context, customerID, id int64) error {
	ok, err := s.repo.Delete(ctx, customerID, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// NormalizePlate upper-cases a licence plate and collapses whitespace: " 34 abc  123" -> "34 ABC 123".
func NormalizePlate(p string) string {
	return strings.ToUpper(strings.Join(strings.Fields(p), " "))
}
