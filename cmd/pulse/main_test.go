package main

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioPulse/internal/cache"
	"PortfolioPulse/internal/collector"
	"PortfolioPulse/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("CACHE_TTL", "")
	cfg, err := config.Load(t.TempDir() + "/absent.yaml")
	require.NoError(t, err)
	return cfg
}

func TestWithCache_Disabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.TTL = -1
	base := collector.NewStaticFetcher(time.Now(), map[string][]float64{"AAPL": {1, 2}})

	f, store := withCache(context.Background(), cfg, base, zerolog.Nop())
	assert.Nil(t, store)
	assert.Equal(t, "static", f.Name())
}

func TestWithCache_MemoryStore(t *testing.T) {
	cfg := testConfig(t)
	base := collector.NewStaticFetcher(time.Now(), map[string][]float64{"AAPL": {1, 2}})

	f, store := withCache(context.Background(), cfg, base, zerolog.Nop())
	require.NotNil(t, store)
	defer store.Close()
	assert.IsType(t, &cache.MemoryStore{}, store)
	assert.Equal(t, "static+cache", f.Name())

	for i := 0; i < 2; i++ {
		_, err := f.FetchHistory(context.Background(), "AAPL", 30)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, base.Calls("AAPL"))
}

func TestWithCache_UnreachableRedisFallsBack(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.RedisAddr = "127.0.0.1:1"
	base := collector.NewStaticFetcher(time.Now(), map[string][]float64{"AAPL": {1, 2}})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, store := withCache(ctx, cfg, base, zerolog.Nop())
	require.NotNil(t, store)
	defer store.Close()
	assert.IsType(t, &cache.MemoryStore{}, store)
}
