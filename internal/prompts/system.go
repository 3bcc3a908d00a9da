package prompts

import "context"

// System defines the public contract for prompt domain operations.
type System interface {
	// Seed writes templates to the prompts table using strategy.
	// Templates are validated before any row is touched.
	Seed(ctx context.Context, templates []Template, strategy Strategy) (*SeedResult, error)

	List(ctx context.Context, filters Filters) ([]Prompt, error)
	Find(ctx context.Context, name string) (*Prompt, error)
	Count(ctx context.Context) (int, error)
}
