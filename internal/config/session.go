package config

import (
	"fmt"
	"os"
)

const (
	// EnvSessionName overrides the flash session cookie name.
	EnvSessionName = "SESSION_NAME"

	// EnvSessionSecret overrides the session signing secret.
	EnvSessionSecret = "SESSION_SECRET"
)

// SessionConfig contains flash message session configuration.
type SessionConfig struct {
	Name   string `toml:"name"`
	Secret string `toml:"secret"`
}

// Finalize applies defaults, loads environment overrides, and validates the session configuration.
func (c *SessionConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *SessionConfig) Merge(overlay *SessionConfig) {
	if overlay.Name != "" {
		c.Name = overlay.Name
	}
	if overlay.Secret != "" {
		c.Secret = overlay.Secret
	}
}

func (c *SessionConfig) loadDefaults() {
	if c.Name == "" {
		c.Name = "catalog_session"
	}
}

func (c *SessionConfig) loadEnv() {
	if v := os.Getenv(EnvSessionName); v != "" {
		c.Name = v
	}
	if v := os.Getenv(EnvSessionSecret); v != "" {
		c.Secret = v
	}
}

func (c *SessionConfig) validate() error {
	if c.Secret == "" {
		return fmt.Errorf("secret required")
	}
	return nil
}
