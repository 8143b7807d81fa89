package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/taskdesk/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     API base URL
//	-s string     session store: memory or sqlite
//	-d string     SQLite file for the sqlite session store
//	-t duration   notification lifetime, e.g. 4s
//	-r duration   per-request timeout, 0 for none
//	-l string     log level
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-d", "-t", "-r", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.SessionStore, "s", cfg.SessionStore, "session store (memory|sqlite)")
	fs.StringVar(&cfg.SessionDBPath, "d", cfg.SessionDBPath, "session database file")
	fs.DurationVar(&cfg.ToastTTL, "t", cfg.ToastTTL, "notification lifetime")
	fs.DurationVar(&cfg.HTTPTimeout, "r", cfg.HTTPTimeout, "request timeout (0 = none)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
