// Package schema implements idempotent, forward-only column migrations
// detected by introspecting the live schema rather than a migration ledger.
package schema

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	typePattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 ,()]*$`)
)

// Column describes a column as reported by the database.
type Column struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	NotNull bool    `json:"not_null"`
	Default *string `json:"default,omitempty"`
}

// String renders the column as it would appear in a table definition.
func (c Column) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	if c.Type != "" {
		b.WriteString(" " + c.Type)
	}
	if c.NotNull {
		b.WriteString(" NOT NULL")
	}
	if c.Default != nil {
		b.WriteString(" DEFAULT " + *c.Default)
	}
	return b.String()
}

// ColumnSpec describes an additive column change.
// Default is a literal string value; nil means no DEFAULT clause.
type ColumnSpec struct {
	Table   string
	Column  string
	Type    string
	Default *string
	NotNull bool
}

// Validate checks identifiers and constraint combinations before any SQL
// is generated from the column spec.
func (s ColumnSpec) Validate() error {
	if !identPattern.MatchString(s.Table) {
		return fmt.Errorf("%w: table %q", ErrInvalidIdentifier, s.Table)
	}
	if !identPattern.MatchString(s.Column) {
		return fmt.Errorf("%w: column %q", ErrInvalidIdentifier, s.Column)
	}
	if !typePattern.MatchString(s.Type) {
		return fmt.Errorf("%w: %q", ErrInvalidType, s.Type)
	}
	if s.NotNull && s.Default == nil {
		return fmt.Errorf("%w: %s.%s", ErrNotNullDefault, s.Table, s.Column)
	}
	return nil
}

// AddColumnSQL renders the ALTER TABLE statement for the column spec.
// The statement is valid for both SQLite and PostgreSQL.
func (s ColumnSpec) AddColumnSQL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ALTER TABLE %s ADD COLUMN %s %s", s.Table, s.Column, s.Type)
	if s.NotNull {
		b.WriteString(" NOT NULL")
	}
	if s.Default != nil {
		b.WriteString(" DEFAULT ")
		b.WriteString(quoteLiteral(*s.Default))
	}
	return b.String()
}

func (s ColumnSpec) String() string {
	return s.Table + "." + s.Column
}

// HasColumn reports whether cols contains a column named name.
// Names compare case-insensitively, matching both supported backends.
func HasColumn(cols []Column, name string) bool {
	_, ok := FindColumn(cols, name)
	return ok
}

// FindColumn returns the column named name.
func FindColumn(cols []Column, name string) (Column, bool) {
	for _, c := range cols {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in schema order.
func ColumnNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func quoteLiteral(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}
