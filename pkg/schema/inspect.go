package schema

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/JaimeStill/tavern/pkg/database"
	"github.com/JaimeStill/tavern/pkg/repository"
)

// Inspector reads live schema metadata.
type Inspector interface {
	Columns(ctx context.Context, table string) ([]Column, error)
	TableExists(ctx context.Context, table string) (bool, error)
}

// NewInspector returns the Inspector for the given driver.
func NewInspector(q repository.Querier, driver database.Driver) Inspector {
	if driver == database.DriverPostgres {
		return &postgresInspector{q: q}
	}
	return &sqliteInspector{q: q}
}

type sqliteInspector struct {
	q repository.Querier
}

func (i *sqliteInspector) Columns(ctx context.Context, table string) ([]Column, error) {
	const q = `
		SELECT name, type, "notnull", dflt_value
		FROM pragma_table_info(?)
		ORDER BY cid`

	cols, err := repository.QueryMany(ctx, i.q, q, []any{table}, scanSQLiteColumn)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", table, err)
	}
	return cols, nil
}

func (i *sqliteInspector) TableExists(ctx context.Context, table string) (bool, error) {
	ok, err := repository.Exists(
		ctx, i.q,
		"SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?",
		table,
	)
	if err != nil {
		return false, fmt.Errorf("lookup table %s: %w", table, err)
	}
	return ok, nil
}

type postgresInspector struct {
	q repository.Querier
}

func (i *postgresInspector) Columns(ctx context.Context, table string) ([]Column, error) {
	const q = `
		SELECT column_name, data_type, is_nullable = 'NO', column_default
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position`

	cols, err := repository.QueryMany(ctx, i.q, q, []any{table}, scanPostgresColumn)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", table, err)
	}
	return cols, nil
}

func (i *postgresInspector) TableExists(ctx context.Context, table string) (bool, error) {
	ok, err := repository.Exists(
		ctx, i.q,
		`SELECT 1 FROM information_schema.tables
		 WHERE table_schema = current_schema() AND table_name = $1`,
		table,
	)
	if err != nil {
		return false, fmt.Errorf("lookup table %s: %w", table, err)
	}
	return ok, nil
}

func scanSQLiteColumn(s repository.Scanner) (Column, error) {
	var (
		c       Column
		notNull int
		dflt    sql.NullString
	)
	if err := s.Scan(&c.Name, &c.Type, &notNull, &dflt); err != nil {
		return Column{}, err
	}
	c.NotNull = notNull != 0
	if dflt.Valid {
		c.Default = &dflt.String
	}
	return c, nil
}

func scanPostgresColumn(s repository.Scanner) (Column, error) {
	var (
		c    Column
		dflt sql.NullString
	)
	if err := s.Scan(&c.Name, &c.Type, &c.NotNull, &dflt); err != nil {
		return Column{}, err
	}
	if dflt.Valid {
		c.Default = &dflt.String
	}
	return c, nil
}
