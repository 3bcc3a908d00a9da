// Package migrations owns the tavern schema: the versioned baseline tables
// tracked by golang-migrate and the ordered column evolutions applied by
// introspection.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"

	"github.com/JaimeStill/tavern/pkg/database"
)

//go:embed sqlite/*.sql postgres/*.sql
var baselineFS embed.FS

// Baseline applies the versioned CREATE TABLE migrations for a driver.
type Baseline struct {
	m *migrate.Migrate
}

// NewBaseline creates a Baseline for the configured database.
// The caller must Close it.
func NewBaseline(cfg *database.Config) (*Baseline, error) {
	driver, err := database.ParseDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}

	source, err := iofs.New(baselineFS, string(driver))
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, cfg.MigrateURL())
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}

	return &Baseline{m: m}, nil
}

// Files lists the embedded baseline migration files for a driver.
func Files(driver database.Driver) ([]string, error) {
	return fs.Glob(baselineFS, string(driver)+"/*.up.sql")
}

// Up applies all pending baseline migrations. An up-to-date schema is not an error.
func (b *Baseline) Up() error {
	if err := b.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run up migrations: %w", err)
	}
	return nil
}

// Down reverts all baseline migrations.
func (b *Baseline) Down() error {
	if err := b.m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run down migrations: %w", err)
	}
	return nil
}

// Steps applies n migrations; negative n migrates down.
func (b *Baseline) Steps(n int) error {
	if err := b.m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migration steps: %w", err)
	}
	return nil
}

// Version returns the current baseline version. A database with no
// applied migrations reports version 0.
func (b *Baseline) Version() (uint, bool, error) {
	v, dirty, err := b.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get version: %w", err)
	}
	return v, dirty, nil
}

// Force sets the recorded version without running migrations.
func (b *Baseline) Force(version int) error {
	if err := b.m.Force(version); err != nil {
		return fmt.Errorf("force version: %w", err)
	}
	return nil
}

// Close releases the source and database handles held by the migrator.
func (b *Baseline) Close() error {
	srcErr, dbErr := b.m.Close()
	return errors.Join(srcErr, dbErr)
}
