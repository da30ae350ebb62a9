// Package cache memoizes price history for a bounded time, keyed by ticker and window.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"PortfolioPulse/internal/collector"
	"PortfolioPulse/internal/model"
)

// DefaultTTL is how long fetched history stays fresh.
const DefaultTTL = time.Hour

// Store holds cached price series.
type Store interface {
	Get(ctx context.Context, key string) (model.PriceSeries, bool, error)
	Set(ctx context.Context, key string, series model.PriceSeries, ttl time.Duration) error
	Close() error
}

// Fetcher wraps a collector.Fetcher with a TTL-bounded store. Failed fetches are not cached.
type Fetcher struct {
	next  collector.Fetcher
	store Store
	ttl   time.Duration
	log   zerolog.Logger
}

// NewFetcher decorates next. A ttl of zero disables caching.
func NewFetcher(next collector.Fetcher, store Store, ttl time.Duration, log zerolog.Logger) *Fetcher {
	return &Fetcher{next: next, store: store, ttl: ttl, log: log}
}

func (f *Fetcher) Name() string { return f.next.Name() + "+cache" }

// Key builds the cache key for a ticker and window.
func Key(provider, ticker string, days int) string {
	return fmt.Sprintf("history:%s:%s:%d", provider, ticker, days)
}

func (f *Fetcher) FetchHistory(ctx context.Context, ticker string, days int) (model.PriceSeries, error) {
	if f.ttl <= 0 {
		return f.next.FetchHistory(ctx, ticker, days)
	}
	key := Key(f.next.Name(), ticker, days)
	series, ok, err := f.store.Get(ctx, key)
	if err != nil {
		f.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	} else if ok {
		return series, nil
	}

	series, err = f.next.FetchHistory(ctx, ticker, days)
	if err != nil {
		return series, err
	}
	if err := f.store.Set(ctx, key, series, f.ttl); err != nil {
		f.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return series, nil
}
