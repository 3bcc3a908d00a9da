package prompts

import "errors"

// Domain errors for prompt operations.
var (
	ErrNotFound        = errors.New("prompt not found")
	ErrDuplicate       = errors.New("prompt name already exists")
	ErrInvalidCategory = errors.New("category must be fallback, persona, frontend, processing, or system")
	ErrInvalidStrategy = errors.New("strategy must be replace or sync")
	ErrEmptyCatalog    = errors.New("prompt catalog is empty")
	ErrInvalidTemplate = errors.New("invalid prompt template")
)
