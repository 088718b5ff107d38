package provider

import "mavina/internal/domain"

type CreateServiceRequest struct {
	Label           string  `json:"label" binding:"required"`
	Price           float64 `json:"price" binding:"required"`
	DurationMinutes int     `json:"duration_minutes"`
}

type UpdateWorkingHoursRequest struct {
	Hours domain.WorkingHours `json:"hours" binding:"required"`
}

type ProviderDetail struct {
	*domain.Provider
	WorkingHours domain.WorkingHours `json:"working_hours"`
}
