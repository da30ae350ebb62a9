package recorder

import (
	"time"

	"PortfolioPulse/internal/model"
)

// RunSnapshot holds everything one scheduled analysis produced.
type RunSnapshot struct {
	GeneratedAt time.Time
	Window      model.Window
	Valuation   model.Valuation
	// TrendWarnings lists tickers left out of the trend series.
	TrendWarnings []model.TickerWarning
	Risk          model.RiskMetrics
	Profile       model.RiskProfile
}

// SnapshotFromReport builds a RunSnapshot from an analysis report.
func SnapshotFromReport(r *model.Report) *RunSnapshot {
	return &RunSnapshot{
		GeneratedAt:   r.GeneratedAt,
		Window:        r.Trend.Window,
		Valuation:     r.Valuation,
		TrendWarnings: r.Trend.Warnings,
		Risk:          r.Risk,
		Profile:       r.Profile,
	}
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordRun(snap *RunSnapshot) error
	Close() error
}
