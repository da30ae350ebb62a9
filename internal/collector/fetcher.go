package collector

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"PortfolioPulse/internal/model"
)

// Provider failures. Callers match them with errors.Is.
var (
	ErrNotFound    = errors.New("ticker not found")
	ErrRateLimited = errors.New("rate limited")
	ErrTimeout     = errors.New("provider timeout")
	ErrEmptySeries = errors.New("empty price series")
)

// Fetcher is the price-data provider capability.
type Fetcher interface {
	// FetchHistory returns the daily closes of ticker covering the last days calendar days,
	// oldest first.
	FetchHistory(ctx context.Context, ticker string, days int) (model.PriceSeries, error)
	Name() string
}

// statusError maps a provider HTTP status onto the failure taxonomy.
func statusError(provider string, code int, body string) error {
	switch code {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w (status %d)", provider, ErrNotFound, code)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w (status %d)", provider, ErrRateLimited, code)
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return fmt.Errorf("%s: %w (status %d)", provider, ErrTimeout, code)
	}
	return fmt.Errorf("%s: status %d, body: %s", provider, code, body)
}

// transportError marks deadline and network timeouts as ErrTimeout.
func transportError(provider string, err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return fmt.Errorf("%s: %w: %v", provider, ErrTimeout, err)
	}
	return fmt.Errorf("%s fetch: %w", provider, err)
}
