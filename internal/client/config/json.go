package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/motordesk/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. After parsing,
// non-empty values are copied into the runtime Config.
type JsonConfig struct {
	ServerURL   string `json:"server_url"`
	ManifestDir string `json:"manifest_dir"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags via flagx.JsonConfigFlags; when no
// path is given, nothing is loaded. Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.ManifestDir != "" {
		cfg.ManifestDir = jc.ManifestDir
	}
}
