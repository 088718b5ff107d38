package repository

import (
	"context"
	"errors"
	"time"

	"mavina/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProviderFilters struct {
	City   string
	Limit  int
	Offset int
}

type ProviderRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

func (r *ProviderRepository) List(ctx context.Context, f ProviderFilters) ([]domain.Provider, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := r.db.WithContext(ctx).Model(&domain.Provider{})
	if f.City != "" {
		q = q.Where("LOWER(city) = LOWER(?)", f.City)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var providers []domain.Provider
	err := q.Preload("Services").
		Order("rating DESC, id").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&providers).Error
	if err != nil {
		return nil, 0, err
	}
	return providers, total, nil
}

func (r *ProviderRepository) GetByID(ctx context.Context, id int64) (*domain.Provider, error) {
	var p domain.Provider
	if err := r.db.WithContext(ctx).Preload("Services").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProviderRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Provider, error) {
	var p domain.Provider
	if err := r.db.WithContext(ctx).Preload("Services").Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetWorkingHours falls back to the default schedule when the provider never saved one.
func (r *ProviderRepository) GetWorkingHours(ctx context.Context, providerID int64) (domain.WorkingHours, error) {
	var row domain.ProviderWorkingHours
	err := r.db.WithContext(ctx).Where("provider_id = ?", providerID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DefaultWorkingHours(), nil
		}
		return nil, err
	}
	if row.Hours == nil {
		return domain.DefaultWorkingHours(), nil
	}
	return row.Hours, nil
}

func (r *ProviderRepository) SaveWorkingHours(ctx context.Context, providerID int64, hours domain.WorkingHours) error {
	row := domain.ProviderWorkingHours{
		ProviderID: providerID,
		Hours:      hours,
		UpdatedAt:  time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"hours", "updated_at"}),
		}).
		Create(&row).Error
}

func (r *ProviderRepository) ListServices(ctx context.Context, providerID int64) ([]domain.ServiceOffering, error) {
	var out []domain.ServiceOffering
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("price, id").
		Find(&out).Error
	return out, err
}

func (r *ProviderRepository) GetService(ctx context.Context, providerID, serviceID int64) (*domain.ServiceOffering, error) {
	var s domain.ServiceOffering
	err := r.db.WithContext(ctx).
		Where("id = ? AND provider_id = ?", serviceID, providerID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ProviderRepository) CreateService(ctx context.Context, s *domain.ServiceOffering) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ProviderRepository) DeleteService(ctx context.Context, providerID, serviceID int64) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND provider_id = ?", serviceID, providerID).
		Delete(&domain.ServiceOffering{})
	return tx.RowsAffected > 0, tx.Error
}
