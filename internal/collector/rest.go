package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"PortfolioPulse/internal/model"
)

// RESTFetcher implements Fetcher against a bars REST API
// (GET {base}/api/v1/bars/daily?symbol=..&days=..).
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
	now     func() time.Time
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration, requestsPerSecond int, log zerolog.Logger) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
		limiter: newLimiter(requestsPerSecond),
		log:     log.With().Str("provider", "rest").Logger(),
		now:     time.Now,
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape from the bars API.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Close     float64 `json:"close"`
}

func (f *RESTFetcher) FetchHistory(ctx context.Context, ticker string, days int) (model.PriceSeries, error) {
	series := model.PriceSeries{Ticker: ticker}
	if err := f.limiter.Wait(ctx); err != nil {
		return series, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("symbol", ticker)
	params.Set("days", fmt.Sprint(days))
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?%s", f.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return series, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return series, transportError("rest", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return series, statusError("rest", resp.StatusCode, string(body))
	}
	var bars []restBar
	if err := json.NewDecoder(resp.Body).Decode(&bars); err != nil {
		return series, fmt.Errorf("decode bars: %w", err)
	}

	points := make([]model.PricePoint, len(bars))
	for i, b := range bars {
		points[i] = model.PricePoint{Date: time.Unix(b.Timestamp, 0), Close: b.Close}
	}
	series.Points = normalizePoints(points, days)
	series.FetchedAt = f.now()
	if len(series.Points) == 0 {
		return series, fmt.Errorf("rest: %w", ErrEmptySeries)
	}
	f.log.Debug().Str("ticker", ticker).Int("points", len(series.Points)).Msg("history fetched")
	return series, nil
}
