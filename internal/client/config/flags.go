package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/motordesk/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the back-office API (default from Config)
//	-m string   manifest directory (default from Config)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the back-office API")
	fs.StringVar(&cfg.ManifestDir, "m", cfg.ManifestDir, "manifest directory")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
