package repository

import (
	"context"
	"time"

	"mavina/internal/domain"

	"gorm.io/gorm"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

type appointmentModel struct {
	ID             int64                    `gorm:"column:id;primaryKey"`
	ProviderID     int64                    `gorm:"column:provider_id;index"`
	ProviderUserID int64                    `gorm:"column:provider_user_id;index"`
	ProviderName   string                   `gorm:"column:provider_name"`
	CustomerID     int64                    `gorm:"column:customer_id;index"`
	CustomerName   string                   `gorm:"column:customer_name"`
	ServiceID      int64                    `gorm:"column:service_id"`
	ServiceLabel   string                   `gorm:"column:service_label"`
	Price          float64                  `gorm:"column:price"`
	Currency       string                   `gorm:"column:currency;size:3"`
	ScheduledAt    time.Time                `gorm:"column:scheduled_at;index"`
	SlotDate       string                   `gorm:"column:slot_date;size:10"`
	SlotTime       string                   `gorm:"column:slot_time;size:5"`
	Status         string                   `gorm:"column:status;size:32;index"`
	Address        string                   `gorm:"column:address;type:text"`
	VehicleID      *int64                   `gorm:"column:vehicle_id"`
	VehicleModel   *string                  `gorm:"column:vehicle_model"`
	VehiclePlate   *string                  `gorm:"column:vehicle_plate"`
	Notes          *string                  `gorm:"column:notes;type:text"`
	CancelReason   *string                  `gorm:"column:cancellation_reason;type:text"`
	CancelledBy    *string                  `gorm:"column:cancelled_by;size:16"`
	CancelledAt    *time.Time               `gorm:"column:cancelled_at"`
	CompletedAt    *time.Time               `gorm:"column:completed_at"`
	Photos         *domain.CompletionPhotos `gorm:"column:photos;serializer:json;type:text"`
	CreatedAt      time.Time                `gorm:"column:created_at"`
	UpdatedAt      time.Time                `gorm:"column:updated_at"`
}

func (appointmentModel) TableName() string { return "appointments" }

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func toDomainAppointment(m appointmentModel) *domain.Appointment {
	status := domain.AppointmentStatus(m.Status)
	return &domain.Appointment{
		ID:                 m.ID,
		ProviderID:         m.ProviderID,
		ProviderUserID:     m.ProviderUserID,
		ProviderName:       m.ProviderName,
		CustomerID:         m.CustomerID,
		CustomerName:       m.CustomerName,
		ServiceID:          m.ServiceID,
		ServiceLabel:       m.ServiceLabel,
		Price:              m.Price,
		Currency:           m.Currency,
		ScheduledAt:        m.ScheduledAt,
		SlotDate:           m.SlotDate,
		SlotTime:           m.SlotTime,
		Status:             status,
		StatusLabel:        status.Label(),
		Address:            m.Address,
		VehicleID:          m.VehicleID,
		VehicleModel:       strVal(m.VehicleModel),
		VehiclePlate:       strVal(m.VehiclePlate),
		Notes:              strVal(m.Notes),
		CancellationReason: strVal(m.CancelReason),
		CancelledBy:        domain.UserRole(strVal(m.CancelledBy)),
		CancelledAt:        m.CancelledAt,
		CompletedAt:        m.CompletedAt,
		Photos:             m.Photos,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toAppointmentModel(a *domain.Appointment) appointmentModel {
	return appointmentModel{
		ID:             a.ID,
		ProviderID:     a.ProviderID,
		ProviderUserID: a.ProviderUserID,
		ProviderName:   a.ProviderName,
		CustomerID:     a.CustomerID,
		CustomerName:   a.CustomerName,
		ServiceID:      a.ServiceID,
		ServiceLabel:   a.ServiceLabel,
		Price:          a.Price,
		Currency:       a.Currency,
		ScheduledAt:    a.ScheduledAt.UTC(),
		SlotDate:       a.SlotDate,
		SlotTime:       a.SlotTime,
		Status:         string(a.Status),
		Address:        a.Address,
		VehicleID:      a.VehicleID,
		VehicleModel:   strPtr(a.VehicleModel),
		VehiclePlate:   strPtr(a.VehiclePlate),
		Notes:          strPtr(a.Notes),
		CancelReason:   strPtr(a.CancellationReason),
		CancelledBy:    strPtr(string(a.CancelledBy)),
		CancelledAt:    a.CancelledAt,
		CompletedAt:    a.CompletedAt,
		Photos:         a.Photos,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// CreateWithSlot inserts the appointment and reserves its booked slot in one transaction.
// A slot already held for the same provider/date/time yields ErrSlotTaken.
func (r *AppointmentRepository) CreateWithSlot(ctx context.Context, a *domain.Appointment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := toAppointmentModel(a)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		if err := reserveSlot(tx, m.ProviderID, m.SlotDate, m.SlotTime, m.ID); err != nil {
			return err
		}
		*a = *toDomainAppointment(m)
		return nil
	})
}

func reserveSlot(tx *gorm.DB, providerID int64, date, clock string, appointmentID int64) error {
	slot := domain.BookedSlot{
		ProviderID:    providerID,
		SlotDate:      date,
		SlotTime:      clock,
		AppointmentID: appointmentID,
	}
	if err := tx.Create(&slot).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrSlotTaken
		}
		return err
	}
	return nil
}

func releaseSlot(tx *gorm.DB, appointmentID int64) error {
	return tx.Where("appointment_id = ?", appointmentID).Delete(&domain.BookedSlot{}).Error
}

// transition persists the listed columns only if the row still has status `from`.
func transition(tx *gorm.DB, a *domain.Appointment, from domain.AppointmentStatus, columns ...string) error {
	a.UpdatedAt = time.Now().UTC()
	m := toAppointmentModel(a)
	cols := append([]string{"status", "updated_at"}, columns...)

	res := tx.Model(&m).
		Where("status = ?", string(from)).
		Select(cols).
		Updates(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	a.StatusLabel = a.Status.Label()
	return nil
}

func (r *AppointmentRepository) Transition(ctx context.Context, a *domain.Appointment, from domain.AppointmentStatus, columns ...string) error {
	return transition(r.db.WithContext(ctx), a, from, columns...)
}

// CancelAndRelease stores the cancellation and frees the slot for other customers.
func (r *AppointmentRepository) CancelAndRelease(ctx context.Context, a *domain.Appointment, from domain.AppointmentStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := transition(tx, a, from, "cancellation_reason", "cancelled_by", "cancelled_at"); err != nil {
			return err
		}
		return releaseSlot(tx, a.ID)
	})
}

// MoveSlot releases the old reservation and takes the one at a.SlotDate/a.SlotTime.
func (r *AppointmentRepository) MoveSlot(ctx context.Context, a *domain.Appointment, from domain.AppointmentStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := releaseSlot(tx, a.ID); err != nil {
			return err
		}
		if err := reserveSlot(tx, a.ProviderID, a.SlotDate, a.SlotTime, a.ID); err != nil {
			return err
		}
		return transition(tx, a, from, "scheduled_at", "slot_date", "slot_time")
	})
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	var m appointmentModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainAppointment(m), nil
}

func (r *AppointmentRepository) List(ctx context.Context, f domain.AppointmentFilter) ([]domain.Appointment, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := r.db.WithContext(ctx).Model(&appointmentModel{})
	if f.CustomerID > 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.ProviderUserID > 0 {
		q = q.Where("provider_user_id = ?", f.ProviderUserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []appointmentModel
	if err := q.Order("scheduled_at DESC, id DESC").Limit(f.Limit).Offset(f.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Appointment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainAppointment(m))
	}
	return out, total, nil
}

// BookedTimes returns the reserved HH:MM times of a provider on a date.
func (r *AppointmentRepository) BookedTimes(ctx context.Context, providerID int64, date string) ([]string, error) {
	var times []string
	err := r.db.WithContext(ctx).
		Model(&domain.BookedSlot{}).
		Where("provider_id = ? AND slot_date = ?", providerID, date).
		Order("slot_time").
		Pluck("slot_time", &times).Error
	return times, err
}

func (r *AppointmentRepository) CountCompletedBetween(ctx context.Context, customerID int64, from, to time.Time) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&appointmentModel{}).
		Where("customer_id = ? AND status = ?", customerID, string(domain.StatusCompleted)).
		Where("completed_at >= ? AND completed_at < ?", from.UTC(), to.UTC()).
		Count(&cnt).Error
	return cnt, err
}

// ListExpiredAwaitingApproval returns requests still waiting for the provider after their start time.
func (r *AppointmentRepository) ListExpiredAwaitingApproval(ctx context.Context, before time.Time, limit int) ([]domain.Appointment, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []appointmentModel
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{string(domain.StatusPendingApproval), string(domain.StatusRescheduled)}).
		Where("scheduled_at < ?", before.UTC()).
		Order("scheduled_at").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Appointment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainAppointment(m))
	}
	return out, nil
}
