package booking

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("booking not found")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("insufficient quantity available")
	ErrInvalidTransition = errors.New("invalid status transition")
)
