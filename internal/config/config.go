package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"ExplosionRadar/internal/marketdata"
	"ExplosionRadar/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Criteria model.ScanCriteria `yaml:"criteria"`
	Fetch    struct {
		LookbackDays            int     `yaml:"lookback_days"`
		TimeoutSeconds          int     `yaml:"timeout_seconds"`
		RatePerSecond           float64 `yaml:"rate_per_second"`
		PauseEvery              int     `yaml:"pause_every"`
		PauseSeconds            int     `yaml:"pause_seconds"`
		RateLimitBackoffSeconds int     `yaml:"ratelimit_backoff_seconds"`
	} `yaml:"fetch"`
	Universe struct {
		DatahubURL   string `yaml:"datahub_url"`
		WikipediaURL string `yaml:"wikipedia_url"`
	} `yaml:"universe"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Export struct {
		Dir string `yaml:"dir"`
	} `yaml:"export"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is fine: defaults alone give a
// working one-shot scanner.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Criteria = model.DefaultCriteria()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("EXPORT_DIR"); v != "" {
		cfg.Export.Dir = v
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("DATAHUB_URL"); v != "" {
		cfg.Universe.DatahubURL = v
	}
	if v := os.Getenv("WIKIPEDIA_URL"); v != "" {
		cfg.Universe.WikipediaURL = v
	}
	if v := os.Getenv("LOOKBACK_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			cfg.Fetch.LookbackDays = days
		}
	}

	// Defaults
	if cfg.Fetch.LookbackDays == 0 {
		cfg.Fetch.LookbackDays = 60 // ~2 months of daily bars
	}
	if cfg.Fetch.TimeoutSeconds == 0 {
		cfg.Fetch.TimeoutSeconds = 10
	}
	if cfg.Fetch.PauseEvery == 0 {
		cfg.Fetch.PauseEvery = 20
	}
	if cfg.Schedule.ScanCron == "" {
		// Weekday evenings, well after the NYSE close.
		cfg.Schedule.ScanCron = "0 30 17 * * 1-5"
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = "data/exports"
	}

	return cfg, nil
}

// Validate rejects configurations that would make a run invalid before it
// starts.
func (c *Config) Validate() error {
	if err := c.Criteria.Validate(); err != nil {
		return fmt.Errorf("criteria: %w", err)
	}
	// ADX(14) is the longest lookback: 2*period bars before a valid value.
	if c.Fetch.LookbackDays < 28 {
		return fmt.Errorf("fetch.lookback_days %d cannot cover the indicator lookbacks (need >= 28)", c.Fetch.LookbackDays)
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be positive")
	}
	return nil
}

// YahooConfig maps the fetch section onto the market-data fetcher settings.
func (c *Config) YahooConfig() marketdata.YahooConfig {
	return marketdata.YahooConfig{
		Proxy:   c.Proxy,
		Timeout: time.Duration(c.Fetch.TimeoutSeconds) * time.Second,
		Pacer: marketdata.PacerConfig{
			RatePerSecond:    c.Fetch.RatePerSecond,
			PauseEvery:       c.Fetch.PauseEvery,
			Pause:            time.Duration(c.Fetch.PauseSeconds) * time.Second,
			RateLimitBackoff: time.Duration(c.Fetch.RateLimitBackoffSeconds) * time.Second,
		},
	}
}
