package config

import (
	"flag"
	"os"
	"time"

	"github.com/altronvault/altron/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   path or DSN of the local state database (default from Config)
//	-i int      session expiry check interval in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.StateDSN, "d", cfg.StateDSN, "path or DSN of the local state database")
	expiryCheckInterval := fs.Int("i", int(cfg.ExpiryCheckInterval.Seconds()), "session expiry check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ExpiryCheckInterval = time.Duration(*expiryCheckInterval) * time.Second
}
