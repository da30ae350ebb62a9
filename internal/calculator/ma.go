package calculator

import (
	"errors"

	"PortfolioPulse/internal/model"
)

// DefaultSMAPeriod is the moving-average window drawn over the portfolio trend.
const DefaultSMAPeriod = 20

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// SMASeries returns the rolling simple moving average of points. The first
// point is emitted at index period-1; fewer points than period yields nil.
func SMASeries(points []model.SeriesPoint, period int) []model.SeriesPoint {
	if period <= 0 || len(points) < period {
		return nil
	}
	out := make([]model.SeriesPoint, 0, len(points)-period+1)
	sum := 0.0
	for i, p := range points {
		sum += p.Value
		if i >= period {
			sum -= points[i-period].Value
		}
		if i >= period-1 {
			out = append(out, model.SeriesPoint{Date: p.Date, Value: sum / float64(period)})
		}
	}
	return out
}
