// Package infrastructure assembles the logging, database, and lifecycle
// systems shared by the tavern binaries.
package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JaimeStill/tavern/internal/config"
	"github.com/JaimeStill/tavern/pkg/database"
	"github.com/JaimeStill/tavern/pkg/lifecycle"
)

// Infrastructure holds the core systems required by the page host.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
}

// NewLogger returns the text logger every binary writes diagnostics with.
func NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, nil))
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := NewLogger(os.Stderr)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Database:  db,
	}, nil
}

// Start registers the database startup check and shutdown hook.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	return nil
}

// Script is the logger and open database a run-once binary works with.
type Script struct {
	Logger   *slog.Logger
	Database database.System
}

// OpenScript opens and pings the configured database. The caller must
// Close the returned Script on every exit path.
func OpenScript(ctx context.Context, cfg *config.Config) (*Script, error) {
	logger := NewLogger(os.Stderr)

	db, err := database.Open(ctx, &cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	logger.Info(
		"database connected",
		"driver", db.Driver(),
		"env", cfg.Env(),
	)

	return &Script{Logger: logger, Database: db}, nil
}

// Close releases the database handle.
func (s *Script) Close() error {
	return s.Database.Close()
}
