package config

import (
	"flag"
	"os"
	"time"
)

// parseFlags overlays cfg from command-line flags:
//
//	-a string   API base URL
//	-d string   path to the local state database
//	-t int      request timeout in seconds
//	-l string   log level (debug, info, warn, error)
//
// Args are pre-filtered so the -c/-config flag handled elsewhere does not
// interfere.
func parseFlags(cfg *Config) {
	args := filterArgs(os.Args[1:], "-a", "-d", "-t", "-l")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to local state database")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
