package admins

import "errors"

// Domain errors for admin operations.
var (
	ErrNotFound       = errors.New("admin not found")
	ErrDuplicate      = errors.New("admin username already exists")
	ErrUserNotFound   = errors.New("source user not found")
	ErrInvalidCommand = errors.New("source username and username are required")
)
