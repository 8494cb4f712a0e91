package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	t.Cleanup(func() { os.Args = old })
	os.Args = append([]string{"motordesk-server"}, args...)
}

func TestParseJson_NoFlagLoadsNothing(t *testing.T) {
	withArgs(t)

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, ":8080", c.EndpointAddr)
}

func TestParseJson_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"endpoint_addr": ":9999",
		"session_validity": "24h",
		"admin_username": "jsonadmin",
		"dev_mode": false
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	withArgs(t, "-c", path)

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, ":9999", c.EndpointAddr)
	assert.Equal(t, 24*time.Hour, c.SessionValidity)
	assert.Equal(t, "jsonadmin", c.AdminUsername)
	assert.False(t, c.DevMode)

	// Fields absent from the file keep their defaults.
	assert.Equal(t, "vehicle-images", c.S3Bucket)
}

func TestParseJson_InvalidFilePanics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	withArgs(t, "-config", path)

	var c Config
	c.LoadDefaults()
	assert.Panics(t, func() { parseJson(&c) })
}
