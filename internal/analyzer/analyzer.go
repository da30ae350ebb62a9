// Package analyzer computes valuation, trend and risk for a set of holdings
// from a price-history source. An Analyzer holds no per-call state: each
// call is a function of its holdings and what the fetcher returns.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"PortfolioPulse/internal/calculator"
	"PortfolioPulse/internal/collector"
	"PortfolioPulse/internal/model"
	"PortfolioPulse/internal/strategy"
)

var (
	ErrNoHoldings       = errors.New("no holdings configured")
	ErrInsufficientData = calculator.ErrInsufficientData
	ErrDivisionByZero   = calculator.ErrDivisionByZero
)

const (
	// ValuationLookbackDays reaches the two most recent closes across weekends and holidays.
	ValuationLookbackDays = 7
	DefaultConcurrency    = 4
)

// Analyzer is the portfolio analytics engine.
type Analyzer struct {
	fetcher     collector.Fetcher
	classifier  strategy.Classifier
	log         zerolog.Logger
	concurrency int
	smaPeriod   int
	now         func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(a *Analyzer) { a.log = log }
}

// WithConcurrency bounds the number of in-flight fetches.
func WithConcurrency(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithClassifier sets the risk profile classifier.
func WithClassifier(c strategy.Classifier) Option {
	return func(a *Analyzer) { a.classifier = c }
}

// WithSMAPeriod sets the moving-average period drawn over the trend.
func WithSMAPeriod(period int) Option {
	return func(a *Analyzer) { a.smaPeriod = period }
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// New creates an Analyzer reading prices from fetcher.
func New(fetcher collector.Fetcher, opts ...Option) *Analyzer {
	a := &Analyzer{
		fetcher:     fetcher,
		classifier:  strategy.NewClassifier(strategy.DefaultThresholds),
		log:         zerolog.Nop(),
		concurrency: DefaultConcurrency,
		smaPeriod:   calculator.DefaultSMAPeriod,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type fetchResult struct {
	series model.PriceSeries
	err    error
}

// fetchAll fetches every holding, keeping results in holding order. Per-ticker
// failures stay in their slot; only cancellation of ctx fails the call.
func (a *Analyzer) fetchAll(ctx context.Context, list []model.Holding, days int) ([]fetchResult, error) {
	results := make([]fetchResult, len(list))
	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, h := range list {
		i, h := i, h
		g.Go(func() error {
			s, err := a.fetcher.FetchHistory(ctx, h.Ticker, days)
			if err == nil && s.Len() == 0 {
				err = fmt.Errorf("%s: %w", h.Ticker, collector.ErrEmptySeries)
			}
			results[i] = fetchResult{series: s, err: err}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (a *Analyzer) exclude(ticker string, err error) model.TickerWarning {
	a.log.Warn().Str("ticker", ticker).Err(err).Msg("ticker excluded")
	return model.TickerWarning{Ticker: ticker, Reason: err.Error(), Err: err}
}

// ComputeValuation values each holding at its latest close. Tickers whose
// fetch fails are left out of both the rows and the total and reported as
// warnings. Rows follow holdings order.
func (a *Analyzer) ComputeValuation(ctx context.Context, h model.Holdings) (model.Valuation, error) {
	if h.Len() == 0 {
		return model.Valuation{}, ErrNoHoldings
	}
	list := h.List()
	results, err := a.fetchAll(ctx, list, ValuationLookbackDays)
	if err != nil {
		return model.Valuation{}, err
	}

	v := model.Valuation{Total: decimal.Zero}
	for i, hold := range list {
		if results[i].err != nil {
			v.Warnings = append(v.Warnings, a.exclude(hold.Ticker, results[i].err))
			continue
		}
		row := valuationRow(hold, results[i].series)
		v.Rows = append(v.Rows, row)
		v.Total = v.Total.Add(row.Value)
	}
	if !v.Total.IsZero() {
		for i := range v.Rows {
			v.Rows[i].Weight = v.Rows[i].Value.Div(v.Total).InexactFloat64()
		}
	}
	return v, nil
}

func valuationRow(h model.Holding, s model.PriceSeries) model.ValuationRow {
	latest, _ := s.Latest()
	row := model.ValuationRow{
		Ticker:            h.Ticker,
		Shares:            h.Shares,
		Price:             latest.Close,
		PreviousClose:     latest.Close,
		Value:             decimal.NewFromFloat(latest.Close).Mul(decimal.NewFromFloat(h.Shares)),
		DayChangeFallback: true,
		AsOf:              latest.Date,
	}
	if prev, ok := s.Previous(); ok && prev.Close != 0 {
		row.PreviousClose = prev.Close
		row.DayChangePct = (latest.Close - prev.Close) / prev.Close * 100
		row.DayChangeFallback = false
	}
	return row
}

// ComputeTrend sums price*shares per date over window. Dates are the union of
// all included series; a ticker with no observation on a date contributes 0
// there. Tickers with no data at all are excluded, as in ComputeValuation.
func (a *Analyzer) ComputeTrend(ctx context.Context, h model.Holdings, window model.Window) (model.PortfolioSeries, error) {
	if h.Len() == 0 {
		return model.PortfolioSeries{}, ErrNoHoldings
	}
	if window.Days < 2 {
		return model.PortfolioSeries{}, fmt.Errorf("lookback window must cover at least 2 days, got %d", window.Days)
	}
	list := h.List()
	results, err := a.fetchAll(ctx, list, window.Days)
	if err != nil {
		return model.PortfolioSeries{}, err
	}

	out := model.PortfolioSeries{Window: window}
	var valued []map[int64]float64
	dates := make(map[int64]time.Time)
	for i, hold := range list {
		if results[i].err != nil {
			out.Warnings = append(out.Warnings, a.exclude(hold.Ticker, results[i].err))
			continue
		}
		byDate := make(map[int64]float64, results[i].series.Len())
		for _, p := range results[i].series.Points {
			d := model.DateOf(p.Date)
			byDate[d.Unix()] = p.Close * hold.Shares
			dates[d.Unix()] = d
		}
		valued = append(valued, byDate)
		out.Tickers = append(out.Tickers, hold.Ticker)
	}

	keys := make([]int64, 0, len(dates))
	for k := range dates {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out.Points = make([]model.SeriesPoint, 0, len(keys))
	for _, k := range keys {
		total := 0.0
		for _, byDate := range valued {
			total += byDate[k]
		}
		out.Points = append(out.Points, model.SeriesPoint{Date: dates[k], Value: total})
	}
	return out, nil
}

// ComputeRisk derives annualized volatility and Sharpe ratio from the
// day-over-day returns of series. It returns ErrInsufficientData when there
// are fewer than 2 returns (metrics not available) and ErrDivisionByZero when
// the returns have zero variance (volatility available, Sharpe undefined).
// The Sharpe ratio is not adjusted for a risk-free rate.
func ComputeRisk(series model.PortfolioSeries) (model.RiskMetrics, error) {
	returns := calculator.DailyReturns(series.Values())
	m := model.RiskMetrics{Observations: len(returns)}

	vol, err := calculator.AnnualizedVolatility(returns)
	if err != nil {
		return m, err
	}
	m.VolatilityPct = vol
	m.Available = true

	sharpe, err := calculator.SharpeRatio(returns)
	if err != nil {
		return m, err
	}
	m.Sharpe = sharpe
	m.SharpeDefined = true
	return m, nil
}

// Analyze runs valuation, trend and risk together. Missing risk metrics are
// reported on the result, not returned as an error.
func (a *Analyzer) Analyze(ctx context.Context, h model.Holdings, window model.Window) (*model.Report, error) {
	if h.Len() == 0 {
		return nil, ErrNoHoldings
	}
	valuation, err := a.ComputeValuation(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("valuation: %w", err)
	}
	trend, err := a.ComputeTrend(ctx, h, window)
	if err != nil {
		return nil, fmt.Errorf("trend: %w", err)
	}

	risk, err := ComputeRisk(trend)
	switch {
	case errors.Is(err, ErrInsufficientData):
		a.log.Info().Int("points", len(trend.Points)).Msg("risk metrics not available")
	case errors.Is(err, ErrDivisionByZero):
		a.log.Info().Msg("sharpe ratio undefined: zero variance")
	}

	profile := a.classifier.Classify(risk)
	report := &model.Report{
		Holdings:      h,
		Valuation:     valuation,
		Trend:         trend,
		MovingAverage: calculator.SMASeries(trend.Points, a.smaPeriod),
		Risk:          risk,
		Profile:       profile,
		Advice:        strategy.Advice(profile),
		GeneratedAt:   a.now(),
	}

	values := trend.Values()
	if high, low, err := calculator.PeriodRange(values); err == nil {
		report.TrendHigh = high
		report.TrendLow = low
		if pos, err := calculator.RangePosition(values[len(values)-1], high, low); err == nil {
			report.RangePosition = pos
		}
	}
	if dd, err := calculator.MaxDrawdown(values); err == nil {
		report.MaxDrawdownPct = dd
	}

	a.log.Debug().
		Int("rows", len(valuation.Rows)).
		Int("points", len(trend.Points)).
		Str("profile", string(profile)).
		Msg("analysis complete")
	return report, nil
}
