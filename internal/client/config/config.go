package config

import "time"

// Config holds runtime settings for the Altron CLI.
//
// Fields:
//   - StateDSN: sqlite DSN of the local state database holding the session
//     token and folder registry.
//   - ExpiryCheckInterval: how often the client checks the persisted session
//     against its TTL.
//
// Units: ExpiryCheckInterval is a time.Duration (e.g., time.Minute).
type Config struct {
	StateDSN            string
	ExpiryCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StateDSN = "altron-state.db"
	c.ExpiryCheckInterval = time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
