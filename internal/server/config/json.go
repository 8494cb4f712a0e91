package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/motordesk/internal/flagx"
	"github.com/dmitrijs2005/motordesk/internal/timex"
)

// JsonConfig is the DTO used only for reading JSON configuration files. It
// uses timex.Duration for interval fields, which allows parsing both string
// values such as "168h" and integer nanoseconds. After unmarshalling its
// fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr    string         `json:"endpoint_addr"`
	DatabaseDSN     string         `json:"database_dsn"`
	SessionSecret   string         `json:"session_secret"`
	SessionValidity timex.Duration `json:"session_validity"`
	AdminUsername   string         `json:"admin_username"`
	AdminPassword   string         `json:"admin_password"`
	S3AccessKey     string         `json:"s3_access_key"`
	S3SecretKey     string         `json:"s3_secret_key"`
	S3Bucket        string         `json:"s3_bucket"`
	S3Region        string         `json:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint"`
	DevMode         *bool          `json:"dev_mode"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. When no flag is given, nothing
// is loaded. An unreadable or invalid file panics: a half-applied config file
// is worse than no server.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SessionSecret != "" {
		config.SessionSecret = c.SessionSecret
	}
	if c.SessionValidity.Duration != 0 {
		config.SessionValidity = time.Duration(c.SessionValidity.Duration)
	}
	if c.AdminUsername != "" {
		config.AdminUsername = c.AdminUsername
	}
	if c.AdminPassword != "" {
		config.AdminPassword = c.AdminPassword
	}
	if c.S3AccessKey != "" {
		config.S3AccessKey = c.S3AccessKey
	}
	if c.S3SecretKey != "" {
		config.S3SecretKey = c.S3SecretKey
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
	if c.DevMode != nil {
		config.DevMode = *c.DevMode
	}
}
