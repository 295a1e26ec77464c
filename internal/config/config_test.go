package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dropwatch/internal/config"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, "system", cfg.Lookup.Client)
	require.Equal(t, 30*time.Second, cfg.Lookup.Timeout)
	require.Equal(t, "whois", cfg.Lookup.Binary)
	require.Equal(t, int64(60), cfg.Watch.Interval)
	require.Equal(t, time.Second, cfg.Watch.CountdownTick)
	require.Empty(t, cfg.Metrics.Addr)
	require.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: production
lookup:
  client: net
  timeout: 5s
watch:
  interval: 120
notify:
  to: owner@example.com
  host: smtp.example.com
  port: 587
`), 0o600))

	// env wins over file
	t.Setenv("LOOKUP_TIMEOUT", "7s")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, "net", cfg.Lookup.Client)
	require.Equal(t, 7*time.Second, cfg.Lookup.Timeout)
	require.Equal(t, int64(120), cfg.Watch.Interval)
	require.Equal(t, "owner@example.com", cfg.Notify.To)
	require.Equal(t, 587, cfg.Notify.Port)
	require.Empty(t, cfg.Notify.Password)
}

func TestUserStorePath(t *testing.T) {
	var cfg config.Config
	cfg.Registry.UserStore = "/tmp/custom-tlds"

	got, err := cfg.UserStorePath()
	require.NoError(t, err)
	require.Equal(t, "/tmp/custom-tlds", got)

	cfg.Registry.UserStore = ""
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	got, err = cfg.UserStorePath()
	require.NoError(t, err)
	require.Contains(t, got, filepath.Join("dropwatch", "tlds"))
}
