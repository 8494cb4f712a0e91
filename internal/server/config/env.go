package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration from environment variables. A .env file in
// the working directory is loaded first when present; real environment
// variables win over it (godotenv does not override existing values).
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("ENDPOINT_ADDR"); ok {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("SESSION_SECRET"); ok {
		config.SessionSecret = v
	}
	if v, ok := os.LookupEnv("SESSION_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.SessionValidity = d
		}
	}
	if v, ok := os.LookupEnv("ADMIN_USERNAME"); ok {
		config.AdminUsername = v
	}
	if v, ok := os.LookupEnv("ADMIN_PASSWORD"); ok {
		config.AdminPassword = v
	}
	if v, ok := os.LookupEnv("S3_ACCESS_KEY"); ok {
		config.S3AccessKey = v
	}
	if v, ok := os.LookupEnv("S3_SECRET_KEY"); ok {
		config.S3SecretKey = v
	}
	if v, ok := os.LookupEnv("S3_BUCKET"); ok {
		config.S3Bucket = v
	}
	if v, ok := os.LookupEnv("S3_REGION"); ok {
		config.S3Region = v
	}
	if v, ok := os.LookupEnv("S3_BASE_ENDPOINT"); ok {
		config.S3BaseEndpoint = v
	}
	if v, ok := os.LookupEnv("DEV_MODE"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			config.DevMode = b
		}
	}
}
