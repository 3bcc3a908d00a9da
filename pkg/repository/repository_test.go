package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/tavern/pkg/database"
	"github.com/JaimeStill/tavern/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := &database.Config{Path: filepath.Join(t.TempDir(), "repo.db")}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize config: %v", err)
	}

	db, err := database.Open(context.Background(), cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	conn := db.Connection()
	if _, err := conn.Exec("CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return conn
}

func scanName(s repository.Scanner) (string, error) {
	var name string
	err := s.Scan(&name)
	return name, err
}

func TestMapError(t *testing.T) {
	other := errors.New("some other error")
	pgForeignKey := &pgconn.PgError{Code: "23503"}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, errNotFound},
		{"wrapped no rows", errors.Join(errors.New("ctx"), sql.ErrNoRows), errNotFound},
		{"pg duplicate", &pgconn.PgError{Code: "23505"}, errDuplicate},
		{"pg other", pgForeignKey, pgForeignKey},
		{"passthrough", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapError(tt.err, errNotFound, errDuplicate)
			if got != tt.want {
				t.Errorf("MapError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapErrorSQLiteDuplicate(t *testing.T) {
	db := openDB(t)

	if _, err := db.Exec("INSERT INTO items (name) VALUES ('a')"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err := db.Exec("INSERT INTO items (name) VALUES ('a')")
	if err == nil {
		t.Fatal("duplicate insert succeeded")
	}

	if !repository.IsDuplicate(err) {
		t.Errorf("IsDuplicate(%v) = false", err)
	}
	if got := repository.MapError(err, errNotFound, errDuplicate); got != errDuplicate {
		t.Errorf("MapError() = %v, want errDuplicate", got)
	}
}

func TestWithTxRollback(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := repository.WithTx(ctx, db, func(tx *sql.Tx) (int, error) {
		if _, err := tx.ExecContext(ctx, "INSERT INTO items (name) VALUES ('a')"); err != nil {
			return 0, err
		}
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx() error = %v, want boom", err)
	}

	n, err := repository.Count(ctx, db, "SELECT COUNT(*) FROM items")
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Count() = %d after rollback, want 0", n)
	}
}

func TestWithTxCommit(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	got, err := repository.WithTx(ctx, db, func(tx *sql.Tx) (int64, error) {
		return repository.ExecAffected(ctx, tx, "INSERT INTO items (name) VALUES ('a'), ('b')")
	})
	if err != nil {
		t.Fatalf("WithTx() error = %v", err)
	}
	if got != 2 {
		t.Errorf("affected = %d, want 2", got)
	}

	names, err := repository.QueryMany(ctx, db, "SELECT name FROM items ORDER BY name", nil, scanName)
	if err != nil {
		t.Fatalf("QueryMany() error = %v", err)
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("names = %v, want [a b]", names)
	}
}

func TestQueryOneNoRows(t *testing.T) {
	db := openDB(t)

	_, err := repository.QueryOne(context.Background(), db, "SELECT name FROM items WHERE id = ?", []any{1}, scanName)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("QueryOne() error = %v, want sql.ErrNoRows", err)
	}
}

func TestQueryManyEmpty(t *testing.T) {
	db := openDB(t)

	names, err := repository.QueryMany(context.Background(), db, "SELECT name FROM items", nil, scanName)
	if err != nil {
		t.Fatalf("QueryMany() error = %v", err)
	}
	if names == nil || len(names) != 0 {
		t.Errorf("QueryMany() = %#v, want empty non-nil slice", names)
	}
}

func TestExecExpectOne(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	err := repository.ExecExpectOne(ctx, db, "DELETE FROM items WHERE name = ?", "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("ExecExpectOne(missing) error = %v, want sql.ErrNoRows", err)
	}

	db.Exec("INSERT INTO items (name) VALUES ('a')")
	if err := repository.ExecExpectOne(ctx, db, "DELETE FROM items WHERE name = ?", "a"); err != nil {
		t.Errorf("ExecExpectOne(a) error = %v", err)
	}
}

func TestExists(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	db.Exec("INSERT INTO items (name) VALUES ('a')")

	tests := []struct {
		name string
		want bool
	}{
		{"a", true},
		{"b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repository.Exists(ctx, db, "SELECT 1 FROM items WHERE name = ?", tt.name)
			if err != nil {
				t.Fatalf("Exists() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Exists(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
