package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/tavern/pkg/database"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvTavernEnv             = "TAVERN_ENV"
	EnvTavernShutdownTimeout = "TAVERN_SHUTDOWN_TIMEOUT"
	EnvTavernVersion         = "TAVERN_VERSION"
)

var databaseEnv = &database.Env{
	Driver:          "TAVERN_DB_DRIVER",
	Path:            "TAVERN_DB_PATH",
	Host:            "TAVERN_DB_HOST",
	Port:            "TAVERN_DB_PORT",
	Name:            "TAVERN_DB_NAME",
	User:            "TAVERN_DB_USER",
	Password:        "TAVERN_DB_PASSWORD",
	SSLMode:         "TAVERN_DB_SSL_MODE",
	MaxOpenConns:    "TAVERN_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "TAVERN_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "TAVERN_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "TAVERN_DB_CONN_TIMEOUT",
}

// Config is the root configuration shared by the tavern binaries.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Seed            SeedConfig      `toml:"seed"`
	Admin           AdminConfig     `toml:"admin"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the TAVERN_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvTavernEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Seed.Merge(&overlay.Seed)
	c.Admin.Merge(&overlay.Admin)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Seed.Finalize(); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if err := c.Admin.Finalize(); err != nil {
		return fmt.Errorf("admin: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvTavernShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvTavernVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvTavernEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
