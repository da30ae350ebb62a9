package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioPulse/internal/strategy"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultHoldings, cfg.Portfolio.Holdings)
	assert.Equal(t, 30, cfg.Analysis.LookbackDays)
	assert.Equal(t, strategy.DefaultThresholds, cfg.Analysis.Thresholds)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "USD", cfg.Report.Currency)
	assert.Equal(t, "0 * * * * *", cfg.Schedule.RefreshCron)
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
provider:
  base_url: http://bars.local
  timeout: 3s
portfolio:
  holdings: "NVDA:4, AMD:10"
analysis:
  lookback_days: 365
  thresholds:
    high: 40
    balanced: 20
cache:
  ttl: 15m
telegram:
  bot_token: token
  chat_id: "42"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://bars.local", cfg.Provider.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "NVDA:4, AMD:10", cfg.Portfolio.Holdings)
	assert.Equal(t, 365, cfg.Analysis.LookbackDays)
	assert.Equal(t, strategy.Thresholds{High: 40, Balanced: 20}, cfg.Analysis.Thresholds)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.True(t, cfg.TelegramEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "portfolio:\n  holdings: \"AAPL:1\"\n")
	t.Setenv("PORTFOLIO_HOLDINGS", "TSLA:5")
	t.Setenv("LOOKBACK_DAYS", "90")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "TSLA:5", cfg.Portfolio.Holdings)
	assert.Equal(t, 90, cfg.Analysis.LookbackDays)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("LOOKBACK_DAYS", "a month")
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "portfolio: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.Analysis.LookbackDays = 1
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Analysis.Thresholds = strategy.Thresholds{High: 10, Balanced: 20}
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Telegram.BotToken = "only-token"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Report.Currency = "XYZ"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Report.Currency = "EUR"
	assert.NoError(t, cfg.Validate())
}
