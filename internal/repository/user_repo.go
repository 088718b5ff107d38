package repository

import (
	"context"
	"strings"
	"time"

	"mavina/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex;size:255"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role;size:16"`
	Name         string    `gorm:"column:name"`
	Phone        *string   `gorm:"column:phone"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

// Models lists every table owned by this package for AutoMigrate.
func Models() []any {
	return []any{
		&userModel{},
		&domain.Provider{},
		&domain.ServiceOffering{},
		&domain.ProviderWorkingHours{},
		&appointmentModel{},
		&domain.BookedSlot{},
		&domain.Vehicle{},
	}
}

func toDomainUser(m userModel) *domain.User {
	var phone string
	if m.Phone != nil {
		phone = *m.Phone
	}

	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.UserRole(m.Role),
		Name:         m.Name,
		Phone:        phone,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	var phone *string
	if u.Phone != "" {
		v := u.Phone
		phone = &v
	}

	return userModel{
		ID:           u.ID,
		Email:        strings.TrimSpace(strings.ToLower(u.Email)),
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Name:         u.Name,
		Phone:        phone,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	*u = *toDomainUser(m)
	return nil
}

// CreateProvider stores the user and its provider profile (with default working hours) atomically.
func (r *UserRepository) CreateProvider(ctx context.Context, u *domain.User, p *domain.Provider) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := toUserModel(u)
		if err := tx.Create(&m).Error; err != nil {
			if IsUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}
		*u = *toDomainUser(m)

		p.UserID = u.ID
		if err := tx.Create(p).Error; err != nil {
			return err
		}

		return tx.Create(&domain.ProviderWorkingHours{
			ProviderID: p.ID,
			Hours:      domain.DefaultWorkingHours(),
		}).Error
	})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}
