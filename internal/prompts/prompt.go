// Package prompts implements the prompt template domain for tavern.
// It owns the fixed catalog of system-prompt text used by the chat
// features and the loader that writes that catalog to the prompts table.
package prompts

import "github.com/google/uuid"

// Template is a prompt definition in the seed catalog.
type Template struct {
	Name        string
	Category    Category
	Content     string
	Description string
}

// Prompt is a persisted prompt template.
type Prompt struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Content     string    `json:"content"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	Position    int       `json:"position"`
}

// Template returns the catalog form of the prompt.
func (p Prompt) Template() Template {
	return Template{
		Name:        p.Name,
		Category:    p.Category,
		Content:     p.Content,
		Description: p.Description,
	}
}

// SeedResult reports what a Seed run changed.
type SeedResult struct {
	Strategy  Strategy `json:"strategy"`
	Inserted  int      `json:"inserted"`
	Updated   int      `json:"updated"`
	Unchanged int      `json:"unchanged"`
	Removed   int      `json:"removed"`
}

// Total returns the number of prompts present after the run.
func (r SeedResult) Total() int {
	return r.Inserted + r.Updated + r.Unchanged
}
