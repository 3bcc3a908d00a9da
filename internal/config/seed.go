package config

import (
	"os"
	"strings"
)

const (
	EnvSeedStrategy = "TAVERN_SEED_STRATEGY"

	defaultSeedStrategy = "replace"
)

// SeedConfig holds prompt seeding parameters. Strategy is validated by the
// seed command, which owns the set of strategies.
type SeedConfig struct {
	Strategy string `toml:"strategy"`
}

// Finalize applies defaults and environment variable overrides.
func (c *SeedConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	c.Strategy = strings.ToLower(strings.TrimSpace(c.Strategy))
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *SeedConfig) Merge(overlay *SeedConfig) {
	if overlay.Strategy != "" {
		c.Strategy = overlay.Strategy
	}
}

func (c *SeedConfig) loadDefaults() {
	if c.Strategy == "" {
		c.Strategy = defaultSeedStrategy
	}
}

func (c *SeedConfig) loadEnv() {
	if v := os.Getenv(EnvSeedStrategy); v != "" {
		c.Strategy = v
	}
}
