package migrations

import "github.com/JaimeStill/tavern/pkg/schema"

func ptr[T any](v T) *T { return &v }

// Evolutions are the additive column changes applied after the baseline,
// in order. Each is skipped when its column already exists, so databases
// altered by hand before the runner existed are left untouched.
var Evolutions = []schema.Migration{
	{
		Name: "users_role",
		Column: schema.ColumnSpec{
			Table:   "users",
			Column:  "role",
			Type:    "TEXT",
			Default: ptr("user"),
		},
	},
	{
		Name: "books_pdf_file",
		Column: schema.ColumnSpec{
			Table:  "books",
			Column: "pdf_file",
			Type:   "TEXT",
		},
	},
}
