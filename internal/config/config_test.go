package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	require.Equal(t, 3.0, cfg.Criteria.MinPrice)
	require.Equal(t, 15.0, cfg.Criteria.MaxPrice)
	require.Equal(t, 40.0, cfg.Criteria.MinADX)
	require.Equal(t, 2.0, cfg.Criteria.VolumeSurge)
	require.Equal(t, 60, cfg.Fetch.LookbackDays)
	require.Equal(t, 10, cfg.Fetch.TimeoutSeconds)
	require.Equal(t, 20, cfg.Fetch.PauseEvery)
	require.Equal(t, "0 30 17 * * 1-5", cfg.Schedule.ScanCron)
	require.Equal(t, "data/exports", cfg.Export.Dir)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
criteria:
  min_price: 5
  max_price: 50
  min_adx: 35
fetch:
  lookback_days: 90
  timeout_seconds: 20
database:
  sqlite_path: /tmp/test.db
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 5.0, cfg.Criteria.MinPrice)
	require.Equal(t, 50.0, cfg.Criteria.MaxPrice)
	require.Equal(t, 35.0, cfg.Criteria.MinADX)
	// Untouched criteria keep their defaults.
	require.Equal(t, 500000.0, cfg.Criteria.MinVolume)
	require.Equal(t, 90, cfg.Fetch.LookbackDays)
	require.Equal(t, 20, cfg.Fetch.TimeoutSeconds)
	require.Equal(t, "/tmp/test.db", cfg.Database.SQLitePath)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
database:
  sqlite_path: /tmp/file.db
schedule:
  scan_cron: "0 0 9 * * *"
`)
	t.Setenv("SQLITE_PATH", "/tmp/env.db")
	t.Setenv("CRON_SCAN", "0 15 18 * * 1-5")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok123")
	t.Setenv("LOOKBACK_DAYS", "120")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "/tmp/env.db", cfg.Database.SQLitePath)
	require.Equal(t, "0 15 18 * * 1-5", cfg.Schedule.ScanCron)
	require.Equal(t, "tok123", cfg.Telegram.BotToken)
	require.Equal(t, 120, cfg.Fetch.LookbackDays)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "criteria: [not a map")
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"inverted price band", func(c *Config) { c.Criteria.MinPrice = 50; c.Criteria.MaxPrice = 10 }},
		{"rsi band outside 0-100", func(c *Config) { c.Criteria.RSIHigh = 120 }},
		{"negative min volume", func(c *Config) { c.Criteria.MinVolume = -1 }},
		{"lookback too short for the indicators", func(c *Config) { c.Fetch.LookbackDays = 20 }},
		{"non-positive timeout", func(c *Config) { c.Fetch.TimeoutSeconds = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
			require.NoError(t, err)
			tc.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestYahooConfig_Mapping(t *testing.T) {
	path := writeConfig(t, `
fetch:
  timeout_seconds: 15
  rate_per_second: 4
  pause_every: 10
  pause_seconds: 3
  ratelimit_backoff_seconds: 20
proxy: http://127.0.0.1:7890
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	yc := cfg.YahooConfig()
	require.Equal(t, "http://127.0.0.1:7890", yc.Proxy)
	require.Equal(t, 15*time.Second, yc.Timeout)
	require.Equal(t, 4.0, yc.Pacer.RatePerSecond)
	require.Equal(t, 10, yc.Pacer.PauseEvery)
	require.Equal(t, 3*time.Second, yc.Pacer.Pause)
	require.Equal(t, 20*time.Second, yc.Pacer.RateLimitBackoff)
}
