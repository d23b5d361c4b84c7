package permission

import "errors"

var ErrBanned = errors.New("user is banned")
