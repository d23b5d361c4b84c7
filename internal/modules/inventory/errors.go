package inventory

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("organization item not found")
	ErrConflict   = errors.New("insufficient quantity available")
	ErrForbidden  = errors.New("forbidden")
)
