package ban

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("insufficient authority")
	ErrConflict   = errors.New("an active ban already exists")
	ErrNotFound   = errors.New("no active ban found")
)
