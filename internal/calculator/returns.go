package calculator

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear annualizes daily statistics.
const TradingDaysPerYear = 252

// stdDevFloor treats a standard deviation below it as zero variance.
const stdDevFloor = 1e-12

var (
	ErrInsufficientData = errors.New("insufficient data: fewer than 2 returns")
	ErrDivisionByZero   = errors.New("zero variance: ratio undefined")
)

// DailyReturns computes r_t = (v_t - v_{t-1}) / v_{t-1}.
// Steps whose base value is zero produce no return.
func DailyReturns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev == 0 {
			continue
		}
		r := (values[i] - prev) / prev
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		returns = append(returns, r)
	}
	return returns
}

// AnnualizedVolatility returns the sample standard deviation of returns
// scaled by sqrt(252), in percent.
func AnnualizedVolatility(returns []float64) (float64, error) {
	if len(returns) < 2 {
		return 0, ErrInsufficientData
	}
	return stat.StdDev(returns, nil) * math.Sqrt(TradingDaysPerYear) * 100, nil
}

// SharpeRatio returns mean(r) / stddev(r) * sqrt(252).
// No risk-free rate is subtracted.
func SharpeRatio(returns []float64) (float64, error) {
	if len(returns) < 2 {
		return 0, ErrInsufficientData
	}
	mean, sd := stat.MeanStdDev(returns, nil)
	if sd < stdDevFloor {
		return 0, ErrDivisionByZero
	}
	return mean / sd * math.Sqrt(TradingDaysPerYear), nil
}
