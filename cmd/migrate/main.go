package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/tavern/internal/config"
	"github.com/JaimeStill/tavern/internal/infrastructure"
	"github.com/JaimeStill/tavern/internal/migrations"
	"github.com/JaimeStill/tavern/pkg/schema"
)

type options struct {
	up       bool
	down     bool
	steps    int
	version  bool
	force    int
	forceSet bool
}

// baseline reports whether opts select a baseline ledger operation rather
// than the column evolutions.
func (o options) baseline() bool {
	return o.down || o.version || o.forceSet || o.steps != 0
}

func parseOptions(args []string, output io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.BoolVar(&opts.up, "up", false, "Run all baseline migrations, then column evolutions")
	fs.BoolVar(&opts.down, "down", false, "Revert all baseline migrations")
	fs.IntVar(&opts.steps, "steps", 0, "Number of baseline migrations (positive=up, negative=down)")
	fs.BoolVar(&opts.version, "version", false, "Print current baseline version")
	fs.IntVar(&opts.force, "force", -1, "Force set baseline version (use with caution)")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: migrate [-up|-down|-steps N|-version|-force N]")
		fmt.Fprintln(fs.Output(), "with no flags, applies column evolutions and prints the resulting columns")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "force" {
			opts.forceSet = true
		}
	})

	if opts.up && opts.baseline() {
		return opts, errors.New("-up cannot be combined with -down, -steps, -version, or -force")
	}

	return opts, nil
}

func main() {
	opts, err := parseOptions(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err == nil {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err = run(ctx, opts, os.Stdout)
		stop()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	script, err := infrastructure.OpenScript(ctx, cfg)
	if err != nil {
		return err
	}
	defer script.Close()

	if !opts.baseline() {
		var report *schema.Report
		if opts.up {
			report, err = migrations.Apply(ctx, &cfg.Database, script.Database, script.Logger)
		} else {
			report, err = migrations.Evolve(ctx, script.Database, script.Logger)
		}
		if err != nil {
			return err
		}
		printReport(out, report)
		return nil
	}

	baseline, err := migrations.NewBaseline(&cfg.Database)
	if err != nil {
		return err
	}
	defer baseline.Close()

	switch {
	case opts.version:
		v, dirty, err := baseline.Version()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "version: %d, dirty: %v\n", v, dirty)
	case opts.forceSet:
		if err := baseline.Force(opts.force); err != nil {
			return err
		}
		fmt.Fprintf(out, "forced to version %d\n", opts.force)
	case opts.down:
		if err := baseline.Down(); err != nil {
			return err
		}
		fmt.Fprintln(out, "migrations reverted successfully")
	case opts.steps != 0:
		if err := baseline.Steps(opts.steps); err != nil {
			return err
		}
		fmt.Fprintf(out, "applied %d migration steps\n", opts.steps)
	}

	return nil
}

func printReport(out io.Writer, report *schema.Report) {
	for _, res := range report.Results {
		fmt.Fprintf(out, "%-20s %s\n", res.Migration, res.Outcome)
	}
	for _, table := range report.Tables {
		fmt.Fprintf(out, "\n%s:\n", table.Table)
		for _, col := range table.Columns {
			fmt.Fprintf(out, "  %s\n", col)
		}
	}
	fmt.Fprintf(out, "\n%d of %d evolutions applied\n", report.Applied(), len(report.Results))
}
