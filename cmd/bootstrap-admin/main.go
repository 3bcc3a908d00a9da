package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/tavern/internal/admins"
	"github.com/JaimeStill/tavern/internal/config"
	"github.com/JaimeStill/tavern/internal/infrastructure"
)

func main() {
	var (
		source   = flag.String("source", "", "Username whose password hash is copied (default from config)")
		username = flag.String("username", "", "Admin username to create (default from config)")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, *source, *username, os.Stdout)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "bootstrap-admin:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, source, username string, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	cmd := admins.BootstrapCommand{
		SourceUsername: cfg.Admin.SourceUsername,
		Username:       cfg.Admin.Username,
	}
	if source != "" {
		cmd.SourceUsername = source
	}
	if username != "" {
		cmd.Username = username
	}

	script, err := infrastructure.OpenScript(ctx, cfg)
	if err != nil {
		return err
	}
	defer script.Close()

	result, err := admins.New(script.Database, script.Logger).Bootstrap(ctx, cmd)
	if err != nil {
		return err
	}

	switch result.Outcome {
	case admins.OutcomeExists:
		fmt.Fprintf(out, "admin %q already exists (id %s)\n", result.Admin.Username, result.Admin.ID)
	default:
		fmt.Fprintf(out, "created admin %q from user %q (id %s)\n", result.Admin.Username, cmd.SourceUsername, result.Admin.ID)
	}
	return nil
}
