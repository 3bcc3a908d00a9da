package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost              = "TAVERN_SERVER_HOST"
	EnvServerPort              = "TAVERN_SERVER_PORT"
	EnvServerReadTimeout       = "TAVERN_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "TAVERN_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "TAVERN_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout       = "TAVERN_SERVER_IDLE_TIMEOUT"
)

// ServerConfig holds the page host's listener settings. The shutdown
// deadline is the root Config.ShutdownTimeout.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
}

// ServerTimeouts are the parsed per-connection deadlines.
type ServerTimeouts struct {
	Read       time.Duration
	ReadHeader time.Duration
	Write      time.Duration
	Idle       time.Duration
}

type timeoutField struct {
	key   string
	env   string
	value *string
	def   string
}

// fields lists the duration settings in one place so defaults, env
// overrides, merging, and validation stay in step.
func (c *ServerConfig) fields() []timeoutField {
	return []timeoutField{
		{"read_timeout", EnvServerReadTimeout, &c.ReadTimeout, "15s"},
		{"read_header_timeout", EnvServerReadHeaderTimeout, &c.ReadHeaderTimeout, "5s"},
		{"write_timeout", EnvServerWriteTimeout, &c.WriteTimeout, "15s"},
		{"idle_timeout", EnvServerIdleTimeout, &c.IdleTimeout, "1m"},
	}
}

// Addr returns the listen address. IPv6 hosts are bracketed.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Timeouts parses the duration settings. Call after Finalize.
func (c *ServerConfig) Timeouts() ServerTimeouts {
	parse := func(s string) time.Duration {
		d, _ := time.ParseDuration(s)
		return d
	}
	return ServerTimeouts{
		Read:       parse(c.ReadTimeout),
		ReadHeader: parse(c.ReadHeaderTimeout),
		Write:      parse(c.WriteTimeout),
		Idle:       parse(c.IdleTimeout),
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}

	theirs := overlay.fields()
	for i, f := range c.fields() {
		if v := *theirs[i].value; v != "" {
			*f.value = v
		}
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	for _, f := range c.fields() {
		if *f.value == "" {
			*f.value = f.def
		}
	}
}

func (c *ServerConfig) loadEnv() error {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %q", EnvServerPort, v)
		}
		c.Port = port
	}
	for _, f := range c.fields() {
		if v := os.Getenv(f.env); v != "" {
			*f.value = v
		}
	}
	return nil
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for _, f := range c.fields() {
		d, err := time.ParseDuration(*f.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", f.key, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid %s: must be positive", f.key)
		}
	}
	return nil
}
