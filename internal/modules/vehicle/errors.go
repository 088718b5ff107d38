package vehicle

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("vehicle not found")
)
