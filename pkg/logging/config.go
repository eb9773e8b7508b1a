package logging

import "os"

// Env names the environment variables consulted for overrides. A nil
// Env skips environment lookups.
type Env struct {
	Level  string
	Format string
}

// Config selects the handler level and output format.
type Config struct {
	Level  Level  `toml:"level"`
	Format Format `toml:"format"`
}

// Finalize fills unset fields with defaults, applies environment
// overrides named by env, and validates the result.
func (c *Config) Finalize(env *Env) error {
	if c.Level == "" {
		c.Level = LevelInfo
	}
	if c.Format == "" {
		c.Format = FormatText
	}

	c.loadEnv(env)

	if err := c.Level.Validate(); err != nil {
		return err
	}
	return c.Format.Validate()
}

// Merge overlays non-empty fields from overlay onto the receiver.
func (c *Config) Merge(overlay *Config) {
	if overlay.Level != "" {
		c.Level = overlay.Level
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
}

func (c *Config) loadEnv(env *Env) {
	if env == nil {
		return
	}

	if v := os.Getenv(env.Level); v != "" {
		c.Level = Level(v)
	}
	if v := os.Getenv(env.Format); v != "" {
		c.Format = Format(v)
	}
}
