package config

import (
	"fmt"
	"os"
	"strings"
	"unicode"
)

const (
	EnvAdminSourceUsername = "TAVERN_ADMIN_SOURCE_USERNAME"
	EnvAdminUsername       = "TAVERN_ADMIN_USERNAME"
)

// AdminConfig identifies the user whose password hash seeds the bootstrap
// admin, and the username that admin is created under.
type AdminConfig struct {
	SourceUsername string `toml:"source_username"`
	Username       string `toml:"username"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AdminConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AdminConfig) Merge(overlay *AdminConfig) {
	if overlay.SourceUsername != "" {
		c.SourceUsername = overlay.SourceUsername
	}
	if overlay.Username != "" {
		c.Username = overlay.Username
	}
}

func (c *AdminConfig) loadDefaults() {
	if c.SourceUsername == "" {
		c.SourceUsername = "admin"
	}
	if c.Username == "" {
		c.Username = "admin"
	}
}

func (c *AdminConfig) loadEnv() {
	if v := os.Getenv(EnvAdminSourceUsername); v != "" {
		c.SourceUsername = v
	}
	if v := os.Getenv(EnvAdminUsername); v != "" {
		c.Username = v
	}
}

func (c *AdminConfig) validate() error {
	if strings.ContainsFunc(c.SourceUsername, unicode.IsSpace) {
		return fmt.Errorf("invalid source_username: %q", c.SourceUsername)
	}
	if strings.ContainsFunc(c.Username, unicode.IsSpace) {
		return fmt.Errorf("invalid username: %q", c.Username)
	}
	return nil
}
