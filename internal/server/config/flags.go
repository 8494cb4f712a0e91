package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/motordesk/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   session-signing secret
//	-t int      session validity, hours
//	-u string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session signing secret")

	sessionValidityHours := fs.Int("t", int(config.SessionValidity.Hours()), "session validity (in hours)")

	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionValidity = time.Duration(*sessionValidityHours) * time.Hour
}
