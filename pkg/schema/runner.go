package schema

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/JaimeStill/tavern/pkg/database"
	"github.com/JaimeStill/tavern/pkg/repository"
)

// Outcome reports what Apply did for a migration.
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeSatisfied Outcome = "satisfied"
)

// Migration is a named additive column change.
type Migration struct {
	Name   string
	Column ColumnSpec
}

// Result is the outcome of a single migration.
type Result struct {
	Migration string  `json:"migration"`
	Outcome   Outcome `json:"outcome"`
}

// TableColumns is the column list of a table after a run.
type TableColumns struct {
	Table   string   `json:"table"`
	Columns []Column `json:"columns"`
}

// Report summarizes a Run.
type Report struct {
	Results []Result       `json:"results"`
	Tables  []TableColumns `json:"tables"`
}

// Applied returns the number of migrations that altered the schema.
func (r *Report) Applied() int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == OutcomeApplied {
			n++
		}
	}
	return n
}

// Runner applies column migrations in order, skipping those whose
// column already exists.
type Runner struct {
	exec      repository.Executor
	inspector Inspector
	logger    *slog.Logger
}

// NewRunner creates a Runner bound to db.
func NewRunner(db database.System, logger *slog.Logger) *Runner {
	conn := db.Connection()
	return &Runner{
		exec:      conn,
		inspector: NewInspector(conn, db.Driver()),
		logger:    logger.With("system", "schema"),
	}
}

// Inspector returns the runner's schema inspector.
func (r *Runner) Inspector() Inspector {
	return r.inspector
}

// Apply checks whether the migration's column exists and adds it if not.
// After an ALTER the columns are re-read to confirm the change.
func (r *Runner) Apply(ctx context.Context, m Migration) (Outcome, error) {
	spec := m.Column
	if err := spec.Validate(); err != nil {
		return "", fmt.Errorf("%s: %w", m.Name, err)
	}

	exists, err := r.inspector.TableExists(ctx, spec.Table)
	if err != nil {
		return "", fmt.Errorf("%s: %w", m.Name, err)
	}
	if !exists {
		return "", fmt.Errorf("%s: %w: %s", m.Name, ErrTableNotFound, spec.Table)
	}

	cols, err := r.inspector.Columns(ctx, spec.Table)
	if err != nil {
		return "", fmt.Errorf("%s: %w", m.Name, err)
	}
	if HasColumn(cols, spec.Column) {
		r.logger.Info("column present", "migration", m.Name, "column", spec.String())
		return OutcomeSatisfied, nil
	}

	_, alterErr := r.exec.ExecContext(ctx, spec.AddColumnSQL())
	if alterErr != nil && !isAlreadyExists(alterErr) {
		return "", fmt.Errorf("%s: add column %s: %w", m.Name, spec, alterErr)
	}

	cols, err = r.inspector.Columns(ctx, spec.Table)
	if err != nil {
		return "", fmt.Errorf("%s: verify: %w", m.Name, err)
	}
	if !HasColumn(cols, spec.Column) {
		return "", fmt.Errorf("%s: %w: %s", m.Name, ErrNotApplied, spec)
	}

	if alterErr != nil {
		r.logger.Info("column added concurrently", "migration", m.Name, "column", spec.String())
		return OutcomeSatisfied, nil
	}

	r.logger.Info("column added", "migration", m.Name, "column", spec.String(), "type", spec.Type)
	return OutcomeApplied, nil
}

// Run applies migrations in order and stops at the first failure.
// The returned report carries the results so far even when err is non-nil;
// Tables is populated only after every migration succeeds.
func (r *Runner) Run(ctx context.Context, migrations []Migration) (*Report, error) {
	report := &Report{Results: make([]Result, 0, len(migrations))}

	var tables []string
	for _, m := range migrations {
		outcome, err := r.Apply(ctx, m)
		if err != nil {
			return report, err
		}
		report.Results = append(report.Results, Result{Migration: m.Name, Outcome: outcome})

		if !slices.Contains(tables, m.Column.Table) {
			tables = append(tables, m.Column.Table)
		}
	}

	for _, table := range tables {
		cols, err := r.inspector.Columns(ctx, table)
		if err != nil {
			return report, err
		}
		report.Tables = append(report.Tables, TableColumns{Table: table, Columns: cols})
	}

	return report, nil
}

func isAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate column") || strings.Contains(msg, "already exists")
}
