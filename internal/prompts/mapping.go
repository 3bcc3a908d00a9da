package prompts

import (
	"strings"

	"github.com/JaimeStill/tavern/pkg/repository"
)

const selectColumns = "id, name, category, content, description, active, position"

// Filters contains optional filtering criteria for prompt queries.
// Nil fields are ignored.
type Filters struct {
	Category *Category `json:"category,omitempty"`
	Active   *bool     `json:"active,omitempty"`
}

// where renders the filter as a WHERE clause with ? placeholders.
func (f Filters) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Category != nil {
		conds = append(conds, "category = ?")
		args = append(args, string(*f.Category))
	}
	if f.Active != nil {
		conds = append(conds, "active = ?")
		args = append(args, *f.Active)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanPrompt(s repository.Scanner) (Prompt, error) {
	var p Prompt
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&p.Content,
		&p.Description,
		&p.Active,
		&p.Position,
	)
	return p, err
}
