package calculator

import (
	"math"
	"testing"
	"time"

	"PortfolioPulse/internal/model"
)

const tolerance = 1e-6

func approx(a, b float64) bool { return math.Abs(a-b) < tolerance }

func TestDailyReturns(t *testing.T) {
	got := DailyReturns([]float64{1000, 1010, 990, 1005})
	want := []float64{0.01, -0.0198019802, 0.0151515152}
	if len(got) != len(want) {
		t.Fatalf("expected %d returns, got %d", len(want), len(got))
	}
	for i := range want {
		if !approx(got[i], want[i]) {
			t.Errorf("return[%d] = %.10f, want %.10f", i, got[i], want[i])
		}
	}
}

func TestDailyReturns_SkipsZeroBase(t *testing.T) {
	got := DailyReturns([]float64{0, 100, 110})
	if len(got) != 1 || !approx(got[0], 0.1) {
		t.Errorf("expected [0.1], got %v", got)
	}
	if DailyReturns([]float64{5}) != nil {
		t.Error("expected nil for a single value")
	}
}

func TestVolatilityAndSharpe(t *testing.T) {
	r := DailyReturns([]float64{1000, 1010, 990, 1005})

	vol, err := AnnualizedVolatility(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(vol, 29.955067135233648) {
		t.Errorf("volatility = %.9f, want 29.955067135", vol)
	}

	sharpe, err := SharpeRatio(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(sharpe, 1.5001166048633676) {
		t.Errorf("sharpe = %.9f, want 1.500116605", sharpe)
	}
}

func TestSharpe_ZeroVariance(t *testing.T) {
	r := DailyReturns([]float64{500, 500, 500, 500})
	if _, err := SharpeRatio(r); err != ErrDivisionByZero {
		t.Errorf("expected ErrDivisionByZero, got %v", err)
	}
	vol, err := AnnualizedVolatility(r)
	if err != nil || vol != 0 {
		t.Errorf("expected zero volatility, got %v (%v)", vol, err)
	}
}

func TestInsufficientData(t *testing.T) {
	for _, values := range [][]float64{nil, {100}, {100, 101}} {
		r := DailyReturns(values)
		if _, err := AnnualizedVolatility(r); err != ErrInsufficientData {
			t.Errorf("%v: expected ErrInsufficientData, got %v", values, err)
		}
		if _, err := SharpeRatio(r); err != ErrInsufficientData {
			t.Errorf("%v: expected ErrInsufficientData for sharpe, got %v", values, err)
		}
	}
}

func TestSMASeries(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var points []model.SeriesPoint
	for i, v := range []float64{1, 2, 3, 4, 5} {
		points = append(points, model.SeriesPoint{Date: base.AddDate(0, 0, i), Value: v})
	}
	got := SMASeries(points, 3)
	want := []float64{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(got))
	}
	for i := range want {
		if !approx(got[i].Value, want[i]) {
			t.Errorf("sma[%d] = %.3f, want %.3f", i, got[i].Value, want[i])
		}
	}
	if !got[0].Date.Equal(points[2].Date) {
		t.Errorf("first sma date = %v, want %v", got[0].Date, points[2].Date)
	}
	if SMASeries(points, 6) != nil {
		t.Error("expected nil when period exceeds points")
	}

	last, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 3)
	if err != nil || !approx(last, 4) {
		t.Errorf("CalculateSMA = %v (%v), want 4", last, err)
	}
}

func TestRangeAndDrawdown(t *testing.T) {
	values := []float64{100, 120, 90, 110, 130, 117}
	high, low, err := PeriodRange(values)
	if err != nil || high != 130 || low != 90 {
		t.Errorf("range = (%v, %v, %v), want (130, 90, nil)", high, low, err)
	}

	pos, _ := RangePosition(117, high, low)
	if !approx(pos, 27.0/40.0) {
		t.Errorf("position = %.4f, want 0.675", pos)
	}
	if pos, _ := RangePosition(5, 5, 5); pos != 0.5 {
		t.Errorf("flat range position = %v, want 0.5", pos)
	}

	dd, err := MaxDrawdown(values)
	if err != nil || !approx(dd, 25) {
		t.Errorf("drawdown = %v (%v), want 25", dd, err)
	}
	if _, err := MaxDrawdown(nil); err == nil {
		t.Error("expected error for empty values")
	}
}
