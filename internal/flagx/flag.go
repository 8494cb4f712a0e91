// Package flagx contains helpers for components that share one command line:
// each component filters os.Args down to the flags it owns before parsing.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns the subset of args containing only the allowed flags and
// their values.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      --config=conf.json
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "--flag=value" form
		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		// "-flag value" form; the value is taken only if the next argument
		// does not look like another flag.
		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// JsonConfigFlags extracts the config file path given via -c or -config.
// Other arguments are ignored so components can parse their own flags without
// interference. Returns the empty string when neither flag is present.
func JsonConfigFlags() string {
	var config string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return config
}
