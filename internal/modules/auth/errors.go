package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidRole        = errors.New("role must be customer or provider")
	ErrBusinessNameNeeded = errors.New("business_name is required for providers")
)
