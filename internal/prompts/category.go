package prompts

import "slices"

// Category groups prompt templates by the chat feature that consumes them.
type Category string

const (
	CategoryFallback   Category = "fallback"
	CategoryPersona    Category = "persona"
	CategoryFrontend   Category = "frontend"
	CategoryProcessing Category = "processing"
	CategorySystem     Category = "system"
)

var categories = []Category{
	CategoryFallback,
	CategoryPersona,
	CategoryFrontend,
	CategoryProcessing,
	CategorySystem,
}

// ParseCategory validates a string as a known category.
func ParseCategory(s string) (Category, error) {
	v := Category(s)
	if !slices.Contains(categories, v) {
		return "", ErrInvalidCategory
	}
	return v, nil
}
