package domain

import "time"

type Provider struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	UserID       int64     `json:"user_id" gorm:"uniqueIndex;not null"`
	BusinessName string    `json:"business_name" validate:"required"`
	Phone        string    `json:"phone,omitempty"`
	City         string    `json:"city,omitempty" gorm:"index"`
	Description  string    `json:"description,omitempty" gorm:"type:text"`
	Rating       float64   `json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Services []ServiceOffering `json:"services,omitempty" gorm:"foreignKey:ProviderID"`
}

func (Provider) TableName() string { return "providers" }

// ServiceOffering is an item of a provider's catalog, priced in TRY.
type ServiceOffering struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	ProviderID      int64     `json:"provider_id" gorm:"index;not null"`
	Label           string    `json:"label" validate:"required"`
	Price           float64   `json:"price" validate:"gt=0"`
	DurationMinutes int       `json:"duration_minutes" validate:"gte=0"`
	CreatedAt       time.Time `json:"created_at"`
}

func (ServiceOffering) TableName() string { return "service_offerings" }

type ProviderWorkingHours struct {
	ID         int64        `json:"id" gorm:"primaryKey"`
	ProviderID int64        `json:"provider_id" gorm:"uniqueIndex;not null"`
	Hours      WorkingHours `json:"hours" gorm:"serializer:json;type:text"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

func (ProviderWorkingHours) TableName() string { return "provider_working_hours" }

const DefaultCurrency = "TRY"
