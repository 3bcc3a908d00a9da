package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/tavern/internal/config"
	"github.com/JaimeStill/tavern/internal/infrastructure"
	"github.com/JaimeStill/tavern/internal/prompts"
)

func main() {
	strategy := flag.String("strategy", "", "Seed strategy: replace or sync (default from config)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, *strategy, os.Stdout)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, strategyFlag string, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	name := cfg.Seed.Strategy
	if strategyFlag != "" {
		name = strategyFlag
	}
	strategy, err := prompts.ParseStrategy(name)
	if err != nil {
		return fmt.Errorf("strategy %q: %w", name, err)
	}

	script, err := infrastructure.OpenScript(ctx, cfg)
	if err != nil {
		return err
	}
	defer script.Close()

	result, err := prompts.New(script.Database, script.Logger).Seed(ctx, prompts.Catalog(), strategy)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "seeded %d prompts (%s)\n", result.Total(), result.Strategy)
	fmt.Fprintf(out, "  inserted:  %d\n", result.Inserted)
	fmt.Fprintf(out, "  updated:   %d\n", result.Updated)
	fmt.Fprintf(out, "  unchanged: %d\n", result.Unchanged)
	fmt.Fprintf(out, "  removed:   %d\n", result.Removed)
	return nil
}
