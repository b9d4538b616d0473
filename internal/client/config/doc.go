// Package config loads runtime configuration for the Altron CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   path or DSN of the local state database
//	-i int      session expiry check interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "1m" or integer nanoseconds:
//
//	{
//	  "state_dsn": "altron-state.db",
//	  "expiry_check_interval": "1m"
//	}
//
// Primary API
//
//   - type Config                     — holds StateDSN and ExpiryCheckInterval
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
