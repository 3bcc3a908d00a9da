package database

import "errors"

// ErrNotReady indicates the database connection has not been established.
var ErrNotReady = errors.New("database not ready")

// ErrUnknownDriver indicates a driver name outside the supported set.
var ErrUnknownDriver = errors.New("unknown database driver")
