package migrations

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/tavern/pkg/database"
	"github.com/JaimeStill/tavern/pkg/schema"
)

// Evolve applies Evolutions against db.
func Evolve(ctx context.Context, db database.System, logger *slog.Logger) (*schema.Report, error) {
	report, err := schema.NewRunner(db, logger).Run(ctx, Evolutions)
	if err != nil {
		return report, fmt.Errorf("evolve schema: %w", err)
	}
	return report, nil
}

// Apply brings the database fully up to date: baseline migrations first,
// then Evolutions.
func Apply(ctx context.Context, cfg *database.Config, db database.System, logger *slog.Logger) (*schema.Report, error) {
	baseline, err := NewBaseline(cfg)
	if err != nil {
		return nil, err
	}
	defer baseline.Close()

	if err := baseline.Up(); err != nil {
		return nil, err
	}

	return Evolve(ctx, db, logger)
}
