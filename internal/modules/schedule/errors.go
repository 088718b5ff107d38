package schedule

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrProviderNotFound = errors.New("provider not found")
	ErrDayClosed        = errors.New("provider does not work on this day")
	ErrOutsideHours     = errors.New("time is not a bookable slot")
	ErrSlotInPast       = errors.New("slot is in the past")
	ErrSlotUnavailable  = errors.New("slot is already booked")
)
