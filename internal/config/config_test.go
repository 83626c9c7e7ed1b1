package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "pantrypilot.db", cfg.Database.DSN)
	assert.Equal(t, 3*time.Second, cfg.Routing.Timeout.Std())
	assert.Equal(t, time.Hour, cfg.Travel.CacheTTL.Std())
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadParsesYAML(t *testing.T) {
	raw := `
database:
  driver: postgres
  dsn: "host=localhost dbname=pantry"
routing:
  base_url: "http://localhost:5000"
  timeout: 5s
travel:
  cache_ttl: 30m
home:
  lat: 51.4545
  lng: -2.5879
metrics:
  enabled: true
  path: /prom
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "http://localhost:5000", cfg.Routing.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Routing.Timeout.Std())
	assert.Equal(t, 30*time.Minute, cfg.Travel.CacheTTL.Std())
	assert.Equal(t, 51.4545, cfg.Home.Lat)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/prom", cfg.Metrics.Path)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("routing:\n  timeout: soon\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
