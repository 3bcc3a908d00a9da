package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/JaimeStill/tavern/internal/admins"
	"github.com/JaimeStill/tavern/internal/config"
	"github.com/JaimeStill/tavern/internal/migrations"
	"github.com/JaimeStill/tavern/pkg/database"
)

func scriptEnv(t *testing.T, users ...string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "admin.db")
	t.Chdir(dir)
	t.Setenv("TAVERN_DB_PATH", path)

	cfg := &database.Config{Path: path}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize config: %v", err)
	}
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)
	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if _, err := migrations.Apply(ctx, cfg, db, logger); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	for _, u := range users {
		hash, _ := bcrypt.GenerateFromPassword([]byte(u+"-secret"), bcrypt.MinCost)
		if _, err := db.Connection().Exec(
			"INSERT INTO users (id, username, password_hash) VALUES (?, ?, ?)",
			uuid.New(), u, string(hash),
		); err != nil {
			t.Fatalf("insert user %s: %v", u, err)
		}
	}
}

func TestRunCreatesThenReportsExisting(t *testing.T) {
	scriptEnv(t, "admin")

	var first bytes.Buffer
	if err := run(t.Context(), "", "", &first); err != nil {
		t.Fatalf("first run() error = %v", err)
	}
	if !strings.Contains(first.String(), `created admin "admin" from user "admin"`) {
		t.Errorf("first output = %q", first.String())
	}

	var second bytes.Buffer
	if err := run(t.Context(), "", "", &second); err != nil {
		t.Fatalf("second run() error = %v", err)
	}
	if !strings.Contains(second.String(), `admin "admin" already exists`) {
		t.Errorf("second output = %q", second.String())
	}
}

func TestRunFlagsOverrideConfig(t *testing.T) {
	scriptEnv(t, "alice", "bob")
	t.Setenv(config.EnvAdminSourceUsername, "alice")

	var out bytes.Buffer
	if err := run(t.Context(), "bob", "root", &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out.String(), `created admin "root" from user "bob"`) {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunMissingSourceUser(t *testing.T) {
	scriptEnv(t)

	var out bytes.Buffer
	err := run(t.Context(), "", "", &out)
	if !errors.Is(err, admins.ErrUserNotFound) {
		t.Fatalf("run() error = %v, want ErrUserNotFound", err)
	}
	if out.Len() != 0 {
		t.Errorf("printed %q on failure", out.String())
	}
}
