package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Rhymond/go-money"
	"gopkg.in/yaml.v3"

	"PortfolioPulse/internal/strategy"
)

// DefaultHoldings is the default ticker list, one share each.
const DefaultHoldings = "AAPL:1, GOOGL:1, MSFT:1, AMZN:1, TSLA:1"

// Config holds all application configuration.
type Config struct {
	Provider struct {
		BaseURL   string        `yaml:"base_url"`
		APIKey    string        `yaml:"api_key"`
		Timeout   time.Duration `yaml:"timeout"`
		RateLimit int           `yaml:"rate_limit"`
	} `yaml:"provider"`
	Portfolio struct {
		Holdings string `yaml:"holdings"`
	} `yaml:"portfolio"`
	Analysis struct {
		LookbackDays int                 `yaml:"lookback_days"`
		SMAPeriod    int                 `yaml:"sma_period"`
		Concurrency  int                 `yaml:"concurrency"`
		Thresholds   strategy.Thresholds `yaml:"thresholds"`
	} `yaml:"analysis"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		ReportCron  string `yaml:"report_cron"`
	} `yaml:"schedule"`
	Cache struct {
		TTL           time.Duration `yaml:"ttl"` // negative disables caching
		RedisAddr     string        `yaml:"redis_addr"`
		RedisPassword string        `yaml:"redis_password"`
		RedisDB       int           `yaml:"redis_db"`
	} `yaml:"cache"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Report struct {
		Title      string `yaml:"title"`
		Currency   string `yaml:"currency"`
		DateFormat string `yaml:"date_format"`
	} `yaml:"report"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Proxy string `yaml:"proxy"`
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

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"PROVIDER_BASE_URL":  &c.Provider.BaseURL,
		"PROVIDER_API_KEY":   &c.Provider.APIKey,
		"HTTPS_PROXY":        &c.Proxy,
		"PORTFOLIO_HOLDINGS": &c.Portfolio.Holdings,
		"REFRESH_CRON":       &c.Schedule.RefreshCron,
		"REPORT_CRON":        &c.Schedule.ReportCron,
		"REDIS_ADDR":         &c.Cache.RedisAddr,
		"SQLITE_PATH":        &c.Database.SQLitePath,
		"TELEGRAM_BOT_TOKEN": &c.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":   &c.Telegram.ChatID,
		"LOG_LEVEL":          &c.Logging.Level,
	}
	for name, dst := range strs {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("LOOKBACK_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LOOKBACK_DAYS: %w", err)
		}
		c.Analysis.LookbackDays = days
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CACHE_TTL: %w", err)
		}
		c.Cache.TTL = ttl
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = 10 * time.Second
	}
	if c.Provider.RateLimit == 0 {
		c.Provider.RateLimit = 5
	}
	if c.Portfolio.Holdings == "" {
		c.Portfolio.Holdings = DefaultHoldings
	}
	if c.Analysis.LookbackDays == 0 {
		c.Analysis.LookbackDays = 30
	}
	if c.Analysis.SMAPeriod == 0 {
		c.Analysis.SMAPeriod = 20
	}
	if c.Analysis.Concurrency == 0 {
		c.Analysis.Concurrency = 4
	}
	if c.Analysis.Thresholds == (strategy.Thresholds{}) {
		c.Analysis.Thresholds = strategy.DefaultThresholds
	}
	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "0 * * * * *"
	}
	if c.Schedule.ReportCron == "" {
		c.Schedule.ReportCron = "0 0 22 * * 1-5"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = time.Hour
	}
	if c.Report.Title == "" {
		c.Report.Title = "Stock Portfolio Dashboard"
	}
	if c.Report.Currency == "" {
		c.Report.Currency = "USD"
	}
	if c.Report.DateFormat == "" {
		c.Report.DateFormat = "2006-01-02"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// TelegramEnabled reports whether both Telegram credentials are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all fields are consistent.
func (c *Config) Validate() error {
	if c.Analysis.LookbackDays < 2 {
		return fmt.Errorf("analysis.lookback_days must be >= 2, got %d", c.Analysis.LookbackDays)
	}
	if c.Analysis.SMAPeriod < 1 {
		return fmt.Errorf("analysis.sma_period must be positive")
	}
	if c.Analysis.Concurrency < 1 {
		return fmt.Errorf("analysis.concurrency must be positive")
	}
	if err := c.Analysis.Thresholds.Validate(); err != nil {
		return fmt.Errorf("analysis.thresholds: %w", err)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if money.GetCurrency(c.Report.Currency) == nil {
		return fmt.Errorf("report.currency: unknown currency code %q", c.Report.Currency)
	}
	if c.Provider.RateLimit < 0 {
		return fmt.Errorf("provider.rate_limit must be >= 0")
	}
	return nil
}
