package domain

import "time"

type VehicleType string

const (
	VehicleSedan     VehicleType = "sedan"
	VehicleHatchback VehicleType = "hatchback"
	VehicleSUV       VehicleType = "suv"
	VehiclePickup    VehicleType = "pickup"
	VehicleMinivan   VehicleType = "minivan"
	VehiclePanelvan  VehicleType = "panelvan"
)

func (t VehicleType) Valid() bool {
	switch t {
	case VehicleSedan, VehicleHatchback, VehicleSUV, VehiclePickup, VehicleMinivan, VehiclePanelvan:
		return true
	}
	return false
}

type Vehicle struct {
	ID           int64       `json:"id" gorm:"primaryKey"`
	CustomerID   int64       `json:"customer_id" gorm:"index;not null"`
	Brand        string      `json:"brand"`
	Model        string      `json:"model"`
	LicensePlate string      `json:"license_plate" gorm:"size:16"`
	Type         VehicleType `json:"type"`
	Color        string      `json:"color,omitempty"`
	Year         int         `json:"year"`
	CreatedAt    time.Time   `json:"created_at"`
}

func (Vehicle) TableName() string { return "vehicles" }
