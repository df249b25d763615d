package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Provider struct {
		ChartURL   string `yaml:"chart_url"`
		SearchURL  string `yaml:"search_url"`
		UserAgent  string `yaml:"user_agent"`
		TimeoutSec int    `yaml:"timeout_sec"`
	} `yaml:"provider"`
	Proxy       string   `yaml:"proxy"`
	Watchlist   []string `yaml:"watchlist"`
	Concurrency int      `yaml:"concurrency"`
	Schedule    struct {
		TrendCron  string `yaml:"trend_cron"`
		RatiosCron string `yaml:"ratios_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

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
	if v := os.Getenv("YAHOO_CHART_URL"); v != "" {
		cfg.Provider.ChartURL = v
	}
	if v := os.Getenv("YAHOO_SEARCH_URL"); v != "" {
		cfg.Provider.SearchURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Watchlist = splitSymbols(v)
	}
	if v := os.Getenv("CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Concurrency = n
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_TREND"); v != "" {
		cfg.Schedule.TrendCron = v
	}
	if v := os.Getenv("CRON_RATIOS"); v != "" {
		cfg.Schedule.RatiosCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if cfg.Provider.TimeoutSec == 0 {
		cfg.Provider.TimeoutSec = 30
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 4
	}
	if cfg.Schedule.TrendCron == "" {
		cfg.Schedule.TrendCron = "0 30 22 * * 1-5"
	}
	if cfg.Schedule.RatiosCron == "" {
		cfg.Schedule.RatiosCron = "0 0 8 * * 1"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	// Symbols are opaque; only surrounding whitespace is dropped.
	for i, s := range cfg.Watchlist {
		cfg.Watchlist[i] = strings.TrimSpace(s)
	}

	return cfg, nil
}

// Timeout returns the provider HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Provider.TimeoutSec) * time.Second
}

// TelegramEnabled reports whether both bot token and chat id are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks the fields every command relies on.
func (c *Config) Validate() error {
	if c.Provider.TimeoutSec < 0 {
		return fmt.Errorf("provider.timeout_sec must not be negative")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	for _, s := range c.Watchlist {
		if s == "" {
			return fmt.Errorf("watchlist contains an empty symbol")
		}
	}
	return nil
}

// ValidateWatch additionally requires what the scheduler needs.
func (c *Config) ValidateWatch() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(c.Watchlist) == 0 {
		return fmt.Errorf("watchlist is required")
	}
	return nil
}

func splitSymbols(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
