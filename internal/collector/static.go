package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"PortfolioPulse/internal/model"
)

// StaticFetcher serves fixed series and errors per ticker, for development and testing.
type StaticFetcher struct {
	Series map[string][]model.PricePoint
	Errors map[string]error

	mu    sync.Mutex
	calls map[string]int
}

// NewStaticFetcher builds a StaticFetcher from closes per ticker, one per
// consecutive day ending at end.
func NewStaticFetcher(end time.Time, closes map[string][]float64) *StaticFetcher {
	f := &StaticFetcher{Series: make(map[string][]model.PricePoint), Errors: make(map[string]error)}
	for ticker, cs := range closes {
		f.Series[ticker] = DailyPoints(end, cs...)
	}
	return f
}

// DailyPoints lays closes out on consecutive days ending at end.
func DailyPoints(end time.Time, closes ...float64) []model.PricePoint {
	points := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = model.PricePoint{Date: model.DateOf(end).AddDate(0, 0, i-len(closes)+1), Close: c}
	}
	return points
}

func (s *StaticFetcher) Name() string { return "static" }

func (s *StaticFetcher) FetchHistory(ctx context.Context, ticker string, days int) (model.PriceSeries, error) {
	s.mu.Lock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[ticker]++
	s.mu.Unlock()

	series := model.PriceSeries{Ticker: ticker}
	if err := ctx.Err(); err != nil {
		return series, err
	}
	if err := s.Errors[ticker]; err != nil {
		return series, err
	}
	points, ok := s.Series[ticker]
	if !ok {
		return series, fmt.Errorf("static: %w: %s", ErrNotFound, ticker)
	}
	series.Points = normalizePoints(points, days)
	if len(series.Points) == 0 {
		return series, fmt.Errorf("static: %w", ErrEmptySeries)
	}
	return series, nil
}

// Calls returns how many times ticker was fetched.
func (s *StaticFetcher) Calls(ticker string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[ticker]
}
