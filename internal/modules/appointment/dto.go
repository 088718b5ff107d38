package appointment

import "mavina/internal/domain"

type CreateAppointmentRequest struct {
	ProviderID int64  `json:"provider_id" binding:"required"`
	ServiceID  int64  `json:"service_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Time       string `json:"time" binding:"required"`
	Address    string `json:"address"`
	VehicleID  *int64 `json:"vehicle_id"`
	Notes      string `json:"notes"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type CompleteRequest struct {
	Photos domain.CompletionPhotos `json:"photos"`
}

type RescheduleRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type ListResponse struct {
	Appointments []domain.Appointment `json:"appointments"`
	Total        int64                `json:"total"`
	Limit        int                  `json:"limit"`
	Offset       int                  `json:"offset"`
}

// Actor is the authenticated caller of an appointment operation.
type Actor struct {
	UserID int64
	Role   domain.UserRole
}
