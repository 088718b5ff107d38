package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mavina/internal/domain"
	"mavina/internal/modules/schedule"
	"mavina/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ExpiredReason is recorded on requests the provider never approved before their start.
const ExpiredReason = "expired: not approved before scheduled time"

type Service struct {
	repo      AppointmentRepository
	slots     SlotChecker
	providers ProviderCatalog
	vehicles  VehicleReader
	users     UserReader
	events    EventPublisher
	metrics   TransitionObserver
	log       *zap.Logger
	now       func() time.Time
}

type Deps struct {
	Repo      AppointmentRepository
	Slots     SlotChecker
	Providers ProviderCatalog
	Vehicles  VehicleReader
	Users     UserReader
	Events    EventPublisher
	Metrics   TransitionObserver
	Log       *zap.Logger
}

func NewService(d Deps) *Service {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:      d.Repo,
		slots:     d.Slots,
		providers: d.Providers,
		vehicles:  d.Vehicles,
		users:     d.Users,
		events:    d.Events,
		metrics:   d.Metrics,
		log:       log.Named("appointment"),
		now:       time.Now,
	}
}

func (s *Service) Create(ctx context.Context, customer Actor, req CreateAppointmentRequest) (*domain.Appointment, error) {
	if customer.Role != domain.RoleCustomer {
		return nil, fmt.Errorf("%w: only customers can book", ErrForbidden)
	}
	address := strings.TrimSpace(req.Address)
	if address == "" {
		return nil, ErrAddressRequired
	}

	provider, err := s.providers.GetByID(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: provider", ErrNotFound)
		}
		return nil, err
	}
	offering, err := s.providers.GetService(ctx, provider.ID, req.ServiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: provider does not offer this service", ErrValidation)
		}
		return nil, err
	}

	a := &domain.Appointment{
		ProviderID:     provider.ID,
		ProviderUserID: provider.UserID,
		ProviderName:   provider.BusinessName,
		CustomerID:     customer.UserID,
		ServiceID:      offering.ID,
		ServiceLabel:   offering.Label,
		Price:          offering.Price,
		Currency:       domain.DefaultCurrency,
		SlotDate:       req.Date,
		SlotTime:       req.Time,
		Status:         domain.StatusPendingApproval,
		Address:        address,
		Notes:          strings.TrimSpace(req.Notes),
	}

	if req.VehicleID != nil {
		v, err := s.vehicles.GetByID(ctx, *req.VehicleID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if v == nil || v.CustomerID != customer.UserID {
			return nil, fmt.Errorf("%w: unknown vehicle", ErrValidation)
		}
		a.VehicleID = &v.ID
		a.VehicleModel = strings.TrimSpace(v.Brand + " " + v.Model)
		a.VehiclePlate = v.LicensePlate
	}

	at, err := s.slots.CheckBookable(ctx, provider.ID, req.Date, req.Time)
	if err != nil {
		return nil, mapScheduleErr(err)
	}
	a.ScheduledAt = at.UTC()

	if s.users != nil {
		if u, err := s.users.GetByID(ctx, customer.UserID); err == nil {
			a.CustomerName = u.Name
		}
	}

	if err := s.repo.CreateWithSlot(ctx, a); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	s.log.Info("appointment requested",
		zap.Int64("appointment_id", a.ID),
		zap.Int64("provider_id", a.ProviderID),
		zap.Int64("customer_id", a.CustomerID),
		zap.String("date", a.SlotDate),
		zap.String("time", a.SlotTime),
	)
	s.afterTransition(a, "")
	return a, nil
}

func (s *Service) Get(ctx context.Context, actor Actor, id int64) (*domain.Appointment, error) {
	return s.load(ctx, actor, id)
}

func (s *Service) List(ctx context.Context, actor Actor, status string, limit, offset int) (*ListResponse, error) {
	f := domain.AppointmentFilter{Limit: limit, Offset: offset}
	switch actor.Role {
	case domain.RoleCustomer:
		f.CustomerID = actor.UserID
	case domain.RoleProvider:
		f.ProviderUserID = actor.UserID
	default:
		return nil, ErrForbidden
	}
	if status != "" {
		st, ok := domain.ParseAppointmentStatus(status)
		if !ok {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
		}
		f.Status = st
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ListResponse{Appointments: items, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

// Approve confirms a pending or rescheduled request.
func (s *Service) Approve(ctx context.Context, actor Actor, id int64) (*domain.Appointment, error) {
	a, err := s.loadAsProvider(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(a, domain.StatusConfirmed); err != nil {
		return nil, err
	}
	err = s.persist(ctx, a, domain.StatusConfirmed, func(from domain.AppointmentStatus) error {
		return s.repo.Transition(ctx, a, from)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Start(ctx context.Context, actor Actor, id int64) (*domain.Appointment, error) {
	a, err := s.loadAsProvider(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(a, domain.StatusInProgress); err != nil {
		return nil, err
	}
	err = s.persist(ctx, a, domain.StatusInProgress, func(from domain.AppointmentStatus) error {
		return s.repo.Transition(ctx, a, from)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Complete closes the wash. Front, back, left and right photos are mandatory.
func (s *Service) Complete(ctx context.Context, actor Actor, id int64, photos domain.CompletionPhotos) (*domain.Appointment, error) {
	a, err := s.loadAsProvider(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(a, domain.StatusCompleted); err != nil {
		return nil, err
	}
	if missing := photos.Missing(); len(missing) > 0 {
		return nil, &MissingPhotosError{Missing: missing}
	}

	now := s.now().UTC()
	a.Photos = &photos
	a.CompletedAt = &now
	err = s.persist(ctx, a, domain.StatusCompleted, func(from domain.AppointmentStatus) error {
		return s.repo.Transition(ctx, a, from, "photos", "completed_at")
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Cancel can be called by either party. Providers must give a reason.
func (s *Service) Cancel(ctx context.Context, actor Actor, id int64, reason string) (*domain.Appointment, error) {
	a, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(a, domain.StatusCancelled); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if actor.Role == domain.RoleProvider && reason == "" {
		return nil, ErrReasonRequired
	}

	now := s.now().UTC()
	a.CancellationReason = reason
	a.CancelledBy = actor.Role
	a.CancelledAt = &now
	err = s.persist(ctx, a, domain.StatusCancelled, func(from domain.AppointmentStatus) error {
		return s.repo.CancelAndRelease(ctx, a, from)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Reschedule moves the customer's appointment to a new slot. The provider has to approve it again.
func (s *Service) Reschedule(ctx context.Context, actor Actor, id int64, date, clock string) (*domain.Appointment, error) {
	if actor.Role != domain.RoleCustomer {
		return nil, fmt.Errorf("%w: only the customer can reschedule", ErrForbidden)
	}
	a, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(a, domain.StatusRescheduled); err != nil {
		return nil, err
	}
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return nil, ErrRescheduleFields
	}
	if date == a.SlotDate && clock == a.SlotTime {
		return nil, fmt.Errorf("%w: new time must differ from the current one", ErrValidation)
	}

	at, err := s.slots.CheckBookable(ctx, a.ProviderID, date, clock)
	if err != nil {
		return nil, mapScheduleErr(err)
	}

	prevDate, prevTime, prevAt := a.SlotDate, a.SlotTime, a.ScheduledAt
	a.SlotDate, a.SlotTime, a.ScheduledAt = date, clock, at.UTC()
	err = s.persist(ctx, a, domain.StatusRescheduled, func(from domain.AppointmentStatus) error {
		return s.repo.MoveSlot(ctx, a, from)
	})
	if err != nil {
		a.SlotDate, a.SlotTime, a.ScheduledAt = prevDate, prevTime, prevAt
		return nil, err
	}
	return a, nil
}

// ExpireStale cancels requests that were still awaiting approval when their time passed.
func (s *Service) ExpireStale(ctx context.Context, limit int) (int, error) {
	now := s.now().UTC()
	stale, err := s.repo.ListExpiredAwaitingApproval(ctx, now, limit)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range stale {
		a := &stale[i]
		a.CancellationReason = ExpiredReason
		a.CancelledBy = ""
		a.CancelledAt = &now
		err := s.persist(ctx, a, domain.StatusCancelled, func(from domain.AppointmentStatus) error {
			return s.repo.CancelAndRelease(ctx, a, from)
		})
		if err != nil {
			if errors.Is(err, ErrInvalidStatusTransition) {
				continue
			}
			return expired, err
		}
		expired++
	}
	return expired, nil
}

func (s *Service) load(ctx context.Context, actor Actor, id int64) (*domain.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: appointment", ErrNotFound)
		}
		return nil, err
	}
	switch {
	case actor.Role == domain.RoleCustomer && a.CustomerID == actor.UserID:
	case actor.Role == domain.RoleProvider && a.ProviderUserID == actor.UserID:
	default:
		return nil, ErrForbidden
	}
	return a, nil
}

func (s *Service) loadAsProvider(ctx context.Context, actor Actor, id int64) (*domain.Appointment, error) {
	if actor.Role != domain.RoleProvider {
		return nil, fmt.Errorf("%w: provider only", ErrForbidden)
	}
	return s.load(ctx, actor, id)
}

func checkTransition(a *domain.Appointment, next domain.AppointmentStatus) error {
	if !a.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidStatusTransition, a.Status, next)
	}
	return nil
}

// persist sets the new status, writes it with save and rolls the in-memory status back on failure.
func (s *Service) persist(ctx context.Context, a *domain.Appointment, next domain.AppointmentStatus, save func(from domain.AppointmentStatus) error) error {
	from := a.Status
	a.Status = next
	if err := save(from); err != nil {
		a.Status = from
		switch {
		case errors.Is(err, repository.ErrStaleStatus):
			return fmt.Errorf("%w: appointment changed, reload and retry", ErrInvalidStatusTransition)
		case errors.Is(err, repository.ErrSlotTaken):
			return ErrSlotUnavailable
		}
		return err
	}
	a.StatusLabel = next.Label()

	s.log.Info("appointment status changed",
		zap.Int64("appointment_id", a.ID),
		zap.String("from", string(from)),
		zap.String("to", string(next)),
	)
	s.afterTransition(a, from)
	return nil
}

func (s *Service) afterTransition(a *domain.Appointment, from domain.AppointmentStatus) {
	if s.metrics != nil {
		s.metrics.ObserveTransition(from, a.Status)
	}
	if s.events != nil {
		s.events.PublishStatusChange(a, from)
	}
}

func mapScheduleErr(err error) error {
	switch {
	case errors.Is(err, schedule.ErrSlotUnavailable):
		return ErrSlotUnavailable
	case errors.Is(err, schedule.ErrValidation):
		return fmt.Errorf("%w: %s", ErrValidation, strings.TrimPrefix(err.Error(), "validation error: "))
	case errors.Is(err, schedule.ErrDayClosed),
		errors.Is(err, schedule.ErrOutsideHours),
		errors.Is(err, schedule.ErrSlotInPast):
		return fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	return err
}
