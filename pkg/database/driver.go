package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Driver identifies a supported database backend.
type Driver string

// Supported drivers.
const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// ParseDriver validates a driver name.
func ParseDriver(s string) (Driver, error) {
	switch d := Driver(s); d {
	case DriverSQLite, DriverPostgres:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDriver, s)
	}
}

// SQLName returns the database/sql driver name registered for d.
func (d Driver) SQLName() string {
	if d == DriverPostgres {
		return "pgx"
	}
	return "sqlite"
}

// Rebind converts a query written with ? placeholders into the
// placeholder style of the driver.
func (d Driver) Rebind(query string) string {
	if d == DriverPostgres {
		return sqlx.Rebind(sqlx.DOLLAR, query)
	}
	return sqlx.Rebind(sqlx.QUESTION, query)
}
