package domain

import "time"

type AppointmentStatus string

const (
	StatusPendingApproval AppointmentStatus = "pending_approval"
	StatusConfirmed       AppointmentStatus = "confirmed"
	StatusInProgress      AppointmentStatus = "in_progress"
	StatusCompleted       AppointmentStatus = "completed"
	StatusCancelled       AppointmentStatus = "cancelled"
	StatusRescheduled     AppointmentStatus = "rescheduled"
)

// Only confirmed appointments can be moved. Rescheduled then waits for approval like
// PendingApproval, and the customer may pick another time while it waits.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPendingApproval: {StatusConfirmed, StatusCancelled},
	StatusRescheduled:     {StatusConfirmed, StatusCancelled, StatusRescheduled},
	StatusConfirmed:       {StatusInProgress, StatusCompleted, StatusCancelled, StatusRescheduled},
	StatusInProgress:      {StatusCompleted},
}

var appointmentStatusLabels = map[AppointmentStatus]string{
	StatusPendingApproval: "Beklemede",
	StatusConfirmed:       "Onaylandı",
	StatusInProgress:      "Devam Ediyor",
	StatusCompleted:       "Tamamlandı",
	StatusCancelled:       "İptal Edildi",
	StatusRescheduled:     "Ertelendi",
}

func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	st := AppointmentStatus(s)
	return st, st.Valid()
}

func (s AppointmentStatus) Valid() bool {
	_, ok := appointmentStatusLabels[s]
	return ok
}

func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// AwaitingApproval reports whether the provider still has to accept the current date/time.
func (s AppointmentStatus) AwaitingApproval() bool {
	return s == StatusPendingApproval || s == StatusRescheduled
}

func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Label is the customer-facing (Turkish) name of the status.
func (s AppointmentStatus) Label() string {
	return appointmentStatusLabels[s]
}

type PhotoAngle string

const (
	PhotoFront    PhotoAngle = "front"
	PhotoBack     PhotoAngle = "back"
	PhotoLeft     PhotoAngle = "left"
	PhotoRight    PhotoAngle = "right"
	PhotoInterior PhotoAngle = "interior"
)

var RequiredPhotoAngles = []PhotoAngle{PhotoFront, PhotoBack, PhotoLeft, PhotoRight}

// CompletionPhotos are the proof-of-work photo URLs attached when a wash is completed.
type CompletionPhotos struct {
	Front    string   `json:"front"`
	Back     string   `json:"back"`
	Left     string   `json:"left"`
	Right    string   `json:"right"`
	Interior []string `json:"interior,omitempty"`
}

// Missing returns the required exterior angles that have no photo.
func (p CompletionPhotos) Missing() []PhotoAngle {
	var out []PhotoAngle
	for _, angle := range RequiredPhotoAngles {
		if p.url(angle) == "" {
			out = append(out, angle)
		}
	}
	return out
}

func (p CompletionPhotos) url(angle PhotoAngle) string {
	switch angle {
	case PhotoFront:
		return p.Front
	case PhotoBack:
		return p.Back
	case PhotoLeft:
		return p.Left
	case PhotoRight:
		return p.Right
	}
	return ""
}

type Appointment struct {
	ID             int64             `json:"id"`
	ProviderID     int64             `json:"provider_id"`
	ProviderUserID int64             `json:"-"`
	ProviderName   string            `json:"provider_name"`
	CustomerID     int64             `json:"customer_id"`
	CustomerName   string            `json:"customer_name"`
	ServiceID      int64             `json:"service_id"`
	ServiceLabel   string            `json:"service_label"`
	Price          float64           `json:"price"`
	Currency       string            `json:"currency"`
	ScheduledAt    time.Time         `json:"scheduled_at"`
	SlotDate       string            `json:"date"`
	SlotTime       string            `json:"time"`
	Status         AppointmentStatus `json:"status"`
	StatusLabel    string            `json:"status_label"`
	Address        string            `json:"address"`
	VehicleID      *int64            `json:"vehicle_id,omitempty"`
	VehicleModel   string            `json:"vehicle_model,omitempty"`
	VehiclePlate   string            `json:"vehicle_plate,omitempty"`
	Notes          string            `json:"notes,omitempty"`

	CancellationReason string            `json:"cancellation_reason,omitempty"`
	CancelledBy        UserRole          `json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time        `json:"cancelled_at,omitempty"`
	CompletedAt        *time.Time        `json:"completed_at,omitempty"`
	Photos             *CompletionPhotos `json:"photos,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AppointmentFilter struct {
	CustomerID     int64
	ProviderUserID int64
	Status         AppointmentStatus
	Limit          int
	Offset         int
}

// BookedSlot reserves one provider/date/time. The unique index is what prevents double booking.
type BookedSlot struct {
	ID            int64     `gorm:"primaryKey"`
	ProviderID    int64     `gorm:"uniqueIndex:idx_booked_slot;not null"`
	SlotDate      string    `gorm:"uniqueIndex:idx_booked_slot;size:10;not null"`
	SlotTime      string    `gorm:"uniqueIndex:idx_booked_slot;size:5;not null"`
	AppointmentID int64     `gorm:"index;not null"`
	CreatedAt     time.Time
}

func (BookedSlot) TableName() string { return "booked_slots" }
