package provider

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not_found")
	ErrNotProvider      = errors.New("user has no provider profile")
	ErrServiceNotExists = errors.New("service not found")
)
