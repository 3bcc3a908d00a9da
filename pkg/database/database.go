// Package database provides SQLite and PostgreSQL connection management
// for both lifecycle-coordinated services and run-once scripts.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/JaimeStill/tavern/pkg/lifecycle"
)

// System manages a database connection pool.
type System interface {
	// Connection returns the underlying database connection pool.
	Connection() *sql.DB
	// Driver reports which backend the pool is connected to.
	Driver() Driver
	// Rebind converts a ?-placeholder query to the driver's placeholder style.
	Rebind(query string) string
	// Ping verifies the connection within the configured connection timeout.
	Ping(ctx context.Context) error
	// Close releases the pool.
	Close() error
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	conn        *sql.DB
	driver      Driver
	logger      *slog.Logger
	connTimeout time.Duration
}

// New creates a database system with the given configuration.
// It calls sql.Open to validate the DSN and configure pool parameters,
// but does not establish a connection until Ping or Start is called.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	driver, err := ParseDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver.SQLName(), cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		conn:        db,
		driver:      driver,
		logger:      logger.With("system", "database", "driver", driver),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

// Open creates a database system and verifies the connection. The caller
// owns the returned system and must Close it.
func Open(ctx context.Context, cfg *Config, logger *slog.Logger) (System, error) {
	sys, err := New(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := sys.Ping(ctx); err != nil {
		sys.Close()
		return nil, err
	}

	return sys, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Driver() Driver {
	return d.driver
}

func (d *database) Rebind(query string) string {
	return d.driver.Rebind(query)
}

func (d *database) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, d.connTimeout)
	defer cancel()

	if err := d.conn.PingContext(pingCtx); err != nil {
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	}
	return nil
}

func (d *database) Close() error {
	return d.conn.Close()
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	d.logger.Info("starting database connection")

	lc.OnStartup(func(ctx context.Context) error {
		if err := d.Ping(ctx); err != nil {
			d.logger.Error("database ping failed", "error", err)
			return err
		}

		d.logger.Info("database connection established")
		return nil
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.logger.Info("closing database connection")

		if err := d.conn.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}

		d.logger.Info("database connection closed")
	})

	return nil
}
