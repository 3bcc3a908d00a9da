package admins

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/tavern/pkg/database"
	"github.com/JaimeStill/tavern/pkg/repository"
)

type repo struct {
	db     *sql.DB
	driver database.Driver
	logger *slog.Logger
}

// New creates an admin repository implementing the System interface.
func New(db database.System, logger *slog.Logger) System {
	return &repo{
		db:     db.Connection(),
		driver: db.Driver(),
		logger: logger.With("system", "admins"),
	}
}

func (r *repo) Find(ctx context.Context, username string) (*Admin, error) {
	a, err := r.find(ctx, r.db, username)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

// Bootstrap creates the admin named cmd.Username with the password hash of
// the user cmd.SourceUsername. An existing admin is returned untouched.
func (r *repo) Bootstrap(ctx context.Context, cmd BootstrapCommand) (*BootstrapResult, error) {
	if strings.TrimSpace(cmd.SourceUsername) == "" || strings.TrimSpace(cmd.Username) == "" {
		return nil, ErrInvalidCommand
	}

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (BootstrapResult, error) {
		existing, err := r.find(ctx, tx, cmd.Username)
		if err == nil {
			return BootstrapResult{Admin: existing, Outcome: OutcomeExists}, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return BootstrapResult{}, fmt.Errorf("lookup admin: %w", err)
		}

		var hash string
		err = tx.QueryRowContext(
			ctx,
			r.driver.Rebind("SELECT password_hash FROM users WHERE username = ?"),
			cmd.SourceUsername,
		).Scan(&hash)
		if err != nil {
			return BootstrapResult{}, fmt.Errorf("%s: %w", cmd.SourceUsername, repository.MapError(err, ErrUserNotFound, ErrDuplicate))
		}

		admin := Admin{
			ID:           uuid.New(),
			Username:     cmd.Username,
			PasswordHash: hash,
		}

		// A concurrent bootstrap can create the admin after the lookup above.
		// The conflict is skipped and the winner's row is reported instead.
		inserted, err := repository.ExecAffected(
			ctx, tx,
			r.driver.Rebind("INSERT INTO admins (id, username, password_hash) VALUES (?, ?, ?) ON CONFLICT (username) DO NOTHING"),
			admin.ID, admin.Username, admin.PasswordHash,
		)
		if err != nil {
			return BootstrapResult{}, fmt.Errorf("insert admin: %w", repository.MapError(err, ErrNotFound, ErrDuplicate))
		}
		if inserted == 0 {
			winner, err := r.find(ctx, tx, cmd.Username)
			if err != nil {
				return BootstrapResult{}, fmt.Errorf("lookup admin after conflict: %w", repository.MapError(err, ErrNotFound, ErrDuplicate))
			}
			return BootstrapResult{Admin: winner, Outcome: OutcomeExists}, nil
		}

		return BootstrapResult{Admin: admin, Outcome: OutcomeCreated}, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info(
		"admin bootstrap",
		"outcome", result.Outcome,
		"username", result.Admin.Username,
		"id", result.Admin.ID,
	)
	return &result, nil
}

func (r *repo) find(ctx context.Context, q repository.Querier, username string) (Admin, error) {
	return repository.QueryOne(
		ctx, q,
		r.driver.Rebind("SELECT id, username, password_hash FROM admins WHERE username = ?"),
		[]any{username},
		scanAdmin,
	)
}

func scanAdmin(s repository.Scanner) (Admin, error) {
	var a Admin
	err := s.Scan(&a.ID, &a.Username, &a.PasswordHash)
	return a, err
}
