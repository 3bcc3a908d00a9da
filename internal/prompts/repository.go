package prompts

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/tavern/pkg/database"
	"github.com/JaimeStill/tavern/pkg/repository"
)

type repo struct {
	db     *sql.DB
	driver database.Driver
	logger *slog.Logger
}

// New creates a prompt repository implementing the System interface.
func New(db database.System, logger *slog.Logger) System {
	return &repo{
		db:     db.Connection(),
		driver: db.Driver(),
		logger: logger.With("system", "prompts"),
	}
}

func (r *repo) Seed(ctx context.Context, templates []Template, strategy Strategy) (*SeedResult, error) {
	if _, err := ParseStrategy(string(strategy)); err != nil {
		return nil, err
	}
	if err := ValidateCatalog(templates); err != nil {
		return nil, err
	}

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (SeedResult, error) {
		if strategy == StrategySync {
			return r.sync(ctx, tx, templates)
		}
		return r.replace(ctx, tx, templates)
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info(
		"prompts seeded",
		"strategy", result.Strategy,
		"inserted", result.Inserted,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
		"removed", result.Removed,
	)
	return &result, nil
}

// replace clears the table and inserts templates in list order.
func (r *repo) replace(ctx context.Context, tx *sql.Tx, templates []Template) (SeedResult, error) {
	result := SeedResult{Strategy: StrategyReplace}

	removed, err := repository.ExecAffected(ctx, tx, "DELETE FROM prompts")
	if err != nil {
		return result, fmt.Errorf("clear prompts: %w", err)
	}
	result.Removed = int(removed)

	q := r.driver.Rebind(`
		INSERT INTO prompts (id, name, category, content, description, active, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	for i, t := range templates {
		if _, err := tx.ExecContext(ctx, q, insertArgs(t, i)...); err != nil {
			return result, fmt.Errorf("insert %s: %w", t.Name, repository.MapError(err, ErrNotFound, ErrDuplicate))
		}
		result.Inserted++
	}

	return result, nil
}

// sync upserts templates by name and removes rows missing from the list.
func (r *repo) sync(ctx context.Context, tx *sql.Tx, templates []Template) (SeedResult, error) {
	result := SeedResult{Strategy: StrategySync}

	existing, err := repository.QueryMany(
		ctx, tx,
		"SELECT "+selectColumns+" FROM prompts",
		nil, scanPrompt,
	)
	if err != nil {
		return result, fmt.Errorf("load prompts: %w", err)
	}

	current := make(map[string]Prompt, len(existing))
	for _, p := range existing {
		current[p.Name] = p
	}

	upsert := r.driver.Rebind(`
		INSERT INTO prompts (id, name, category, content, description, active, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			category = excluded.category,
			content = excluded.content,
			description = excluded.description,
			active = excluded.active,
			position = excluded.position`)

	for i, t := range templates {
		prev, found := current[t.Name]
		delete(current, t.Name)

		if found && prev.Template() == t && prev.Active && prev.Position == i {
			result.Unchanged++
			continue
		}

		if _, err := tx.ExecContext(ctx, upsert, insertArgs(t, i)...); err != nil {
			return result, fmt.Errorf("upsert %s: %w", t.Name, repository.MapError(err, ErrNotFound, ErrDuplicate))
		}

		if found {
			result.Updated++
		} else {
			result.Inserted++
		}
	}

	remove := r.driver.Rebind("DELETE FROM prompts WHERE name = ?")
	for name := range current {
		if err := repository.ExecExpectOne(ctx, tx, remove, name); err != nil {
			return result, fmt.Errorf("remove %s: %w", name, err)
		}
		result.Removed++
	}

	return result, nil
}

func (r *repo) List(ctx context.Context, filters Filters) ([]Prompt, error) {
	where, args := filters.where()
	q := r.driver.Rebind("SELECT " + selectColumns + " FROM prompts" + where + " ORDER BY position, name")

	prompts, err := repository.QueryMany(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}
	return prompts, nil
}

func (r *repo) Find(ctx context.Context, name string) (*Prompt, error) {
	q := r.driver.Rebind("SELECT " + selectColumns + " FROM prompts WHERE name = ?")

	p, err := repository.QueryOne(ctx, r.db, q, []any{name}, scanPrompt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Count(ctx context.Context) (int, error) {
	n, err := repository.Count(ctx, r.db, "SELECT COUNT(*) FROM prompts")
	if err != nil {
		return 0, fmt.Errorf("count prompts: %w", err)
	}
	return n, nil
}

func insertArgs(t Template, position int) []any {
	return []any{
		uuid.New(),
		t.Name,
		string(t.Category),
		t.Content,
		t.Description,
		true,
		position,
	}
}
