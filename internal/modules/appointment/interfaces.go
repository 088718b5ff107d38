package appointment

import (
	"context"
	"time"

	"mavina/internal/domain"
)

type AppointmentRepository interface {
	CreateWithSlot(ctx context.Context, a *domain.Appointment) error
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, f domain.AppointmentFilter) ([]domain.Appointment, int64, error)
	Transition(ctx context.Context, a *domain.Appointment, from domain.AppointmentStatus, columns ...string) error
	CancelAndRelease(ctx context.Context, a *domain.Appointment, from domain.AppointmentStatus) error
	MoveSlot(ctx context.Context, a *domain.Appointment, from domain.AppointmentStatus) error
	ListExpiredAwaitingApproval(ctx context.Context, before time.Time, limit int) ([]domain.Appointment, error)
}

type SlotChecker interface {
	CheckBookable(ctx context.Context, providerID int64, date, clock string) (time.Time, error)
}

type ProviderCatalog interface {
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
	GetService(ctx context.Context, providerID, serviceID int64) (*domain.ServiceOffering, error)
}

type VehicleReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// EventPublisher pushes status changes to connected counterparties.
type EventPublisher interface {
	PublishStatusChange(a *domain.Appointment, previous domain.AppointmentStatus)
}

type TransitionObserver interface {
	ObserveTransition(from, to domain.AppointmentStatus)
}
