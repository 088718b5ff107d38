package appointment

import (
	"errors"
	"fmt"
	"strings"

	"mavina/internal/domain"
)

var (
	ErrValidation              = errors.New("validation error")
	ErrNotFound                = errors.New("not_found")
	ErrForbidden               = errors.New("forbidden")
	ErrInvalidStatusTransition = errors.New("invalid_status_transition")
	ErrSlotUnavailable         = errors.New("slot not available")

	ErrReasonRequired   = fmt.Errorf("%w: cancellation reason is required", ErrValidation)
	ErrRescheduleFields = fmt.Errorf("%w: both date and time are required to reschedule", ErrValidation)
	ErrAddressRequired  = fmt.Errorf("%w: address is required", ErrValidation)
)

// MissingPhotosError is returned by Complete when required exterior photos are absent.
type MissingPhotosError struct {
	Missing []domain.PhotoAngle
}

func (e *MissingPhotosError) Error() string {
	names := make([]string, len(e.Missing))
	for i, a := range e.Missing {
		names[i] = string(a)
	}
	return fmt.Sprintf("validation error: missing completion photos: %s", strings.Join(names, ", "))
}

func (e *MissingPhotosError) Unwrap() error { return ErrValidation }
