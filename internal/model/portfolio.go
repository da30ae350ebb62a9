package model

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrBlankTicker   = errors.New("ticker is blank")
	ErrInvalidShares = errors.New("shares must be a non-zero finite number")
)

// Holding is one position: a ticker and a signed share count.
type Holding struct {
	Ticker string  `json:"ticker"`
	Shares float64 `json:"shares"`
}

// Holdings is an insertion-ordered ticker -> shares mapping.
// Setting an existing ticker overwrites its shares in place.
type Holdings struct {
	items []Holding
	index map[string]int
}

// NewHoldings builds Holdings from the given positions, in order.
func NewHoldings(items ...Holding) (Holdings, error) {
	var h Holdings
	for _, it := range items {
		if err := h.Set(it.Ticker, it.Shares); err != nil {
			return Holdings{}, err
		}
	}
	return h, nil
}

// NormalizeTicker trims and upper-cases a ticker.
func NormalizeTicker(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}

// Set adds or overwrites a position.
func (h *Holdings) Set(ticker string, shares float64) error {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return ErrBlankTicker
	}
	if shares == 0 || math.IsNaN(shares) || math.IsInf(shares, 0) {
		return ErrInvalidShares
	}
	if h.index == nil {
		h.index = make(map[string]int)
	}
	if i, ok := h.index[ticker]; ok {
		h.items[i].Shares = shares
		return nil
	}
	h.index[ticker] = len(h.items)
	h.items = append(h.items, Holding{Ticker: ticker, Shares: shares})
	return nil
}

// Shares returns the share count for ticker.
func (h Holdings) Shares(ticker string) (float64, bool) {
	i, ok := h.index[NormalizeTicker(ticker)]
	if !ok {
		return 0, false
	}
	return h.items[i].Shares, true
}

func (h Holdings) Len() int { return len(h.items) }

// List returns a copy of the positions in insertion order.
func (h Holdings) List() []Holding {
	out := make([]Holding, len(h.items))
	copy(out, h.items)
	return out
}

// Tickers returns the tickers in insertion order.
func (h Holdings) Tickers() []string {
	out := make([]string, len(h.items))
	for i, it := range h.items {
		out[i] = it.Ticker
	}
	return out
}

// TickerWarning reports a ticker excluded from a computation.
type TickerWarning struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// ValuationRow is the current snapshot of one holding.
type ValuationRow struct {
	Ticker            string          `json:"ticker"`
	Shares            float64         `json:"shares"`
	Price             float64         `json:"price"`
	PreviousClose     float64         `json:"previous_close"`
	Value             decimal.Decimal `json:"value"`
	DayChangePct      float64         `json:"day_change_pct"`
	DayChangeFallback bool            `json:"day_change_fallback"`
	Weight            float64         `json:"weight"`
	AsOf              time.Time       `json:"as_of"`
}

// Valuation is the result of a valuation pass.
type Valuation struct {
	Rows     []ValuationRow  `json:"rows"`
	Total    decimal.Decimal `json:"total"`
	Warnings []TickerWarning `json:"warnings,omitempty"`
}

// SeriesPoint is the total portfolio value on one date.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// PortfolioSeries is the combined value of all included holdings over time.
type PortfolioSeries struct {
	Window   Window          `json:"window"`
	Points   []SeriesPoint   `json:"points"`
	Tickers  []string        `json:"tickers"`
	Warnings []TickerWarning `json:"warnings,omitempty"`
}

// Values returns the series values in date order.
func (s PortfolioSeries) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// RiskMetrics summarizes the day-over-day returns of a PortfolioSeries.
// Available is false when there were fewer than 2 returns; SharpeDefined is
// false when the returns had zero variance.
type RiskMetrics struct {
	Observations  int     `json:"observations"`
	VolatilityPct float64 `json:"volatility_pct"`
	Sharpe        float64 `json:"sharpe"`
	Available     bool    `json:"available"`
	SharpeDefined bool    `json:"sharpe_defined"`
}

// RiskProfile is the qualitative label attached to a volatility level.
type RiskProfile string

const (
	ProfileHigh         RiskProfile = "High"
	ProfileBalanced     RiskProfile = "Balanced"
	ProfileConservative RiskProfile = "Conservative"
	ProfileUnknown      RiskProfile = "Unknown"
)

// Report bundles valuation, trend and risk for one analysis call.
type Report struct {
	Holdings       Holdings        `json:"-"`
	Valuation      Valuation       `json:"valuation"`
	Trend          PortfolioSeries `json:"trend"`
	MovingAverage  []SeriesPoint   `json:"moving_average,omitempty"`
	TrendHigh      float64         `json:"trend_high"`
	TrendLow       float64         `json:"trend_low"`
	RangePosition  float64         `json:"range_position"`
	MaxDrawdownPct float64         `json:"max_drawdown_pct"`
	Risk           RiskMetrics     `json:"risk"`
	Profile        RiskProfile     `json:"profile"`
	Advice         string          `json:"advice"`
	GeneratedAt    time.Time       `json:"generated_at"`
}
