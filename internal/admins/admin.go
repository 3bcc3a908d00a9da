// Package admins implements administrator accounts and the bootstrap
// that promotes an existing user's credentials into the admins table.
package admins

import "github.com/google/uuid"

// Admin is an administrator account.
type Admin struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
}

// BootstrapCommand names the user whose password hash is copied and the
// username the new admin is created under.
type BootstrapCommand struct {
	SourceUsername string `json:"source_username"`
	Username       string `json:"username"`
}

// Outcome reports what Bootstrap did.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeExists  Outcome = "exists"
)

// BootstrapResult is the admin after Bootstrap and whether it was created.
type BootstrapResult struct {
	Admin   Admin   `json:"admin"`
	Outcome Outcome `json:"outcome"`
}
