package admins

import "context"

// System defines the public contract for admin operations.
type System interface {
	Find(ctx context.Context, username string) (*Admin, error)
	Bootstrap(ctx context.Context, cmd BootstrapCommand) (*BootstrapResult, error)
}
