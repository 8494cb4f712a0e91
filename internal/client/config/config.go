// Package config loads runtime settings for the admin CLI.
package config

// Config holds runtime settings for the motordesk CLI.
//
// Fields:
//   - ServerURL: base URL of the back-office API.
//   - ManifestDir: directory for the local upload manifest database.
type Config struct {
	ServerURL   string
	ManifestDir string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.ManifestDir = ".motordesk"
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
