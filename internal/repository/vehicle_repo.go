package repository

import (
	"context"

	"mavina/internal/domain"

	"gorm.io/gorm"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *VehicleRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Vehicle, error) {
	var out []domain.Vehicle
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id").
		Find(&out).Error
	return out, err
}

func (r *VehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	var v domain.Vehicle
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VehicleRepository) Delete(ctx context.Context, customerID, id int64) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", id, customerID).
		Delete(&domain.Vehicle{})
	return tx.RowsAffected > 0, tx.Error
}
