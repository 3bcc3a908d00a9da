package schema

import "errors"

// Errors returned by column migrations.
var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrInvalidType       = errors.New("invalid column type")
	ErrNotNullDefault    = errors.New("not null column requires a default")
	ErrTableNotFound     = errors.New("table not found")
	ErrNotApplied        = errors.New("column missing after alter")
)
