package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PricePoint is a single daily close.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries holds chronological closing prices for one ticker.
type PriceSeries struct {
	Ticker    string       `json:"ticker"`
	Points    []PricePoint `json:"points"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// Len returns the number of points in the series.
func (s PriceSeries) Len() int { return len(s.Points) }

// Latest returns the most recent point.
func (s PriceSeries) Latest() (PricePoint, bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Previous returns the point before the most recent one.
func (s PriceSeries) Previous() (PricePoint, bool) {
	if len(s.Points) < 2 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-2], true
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Window is a lookback window in calendar days.
type Window struct {
	Name string
	Days int
}

var (
	Window1M = Window{Name: "1mo", Days: 30}
	Window3M = Window{Name: "3mo", Days: 90}
	Window6M = Window{Name: "6mo", Days: 180}
	Window1Y = Window{Name: "1y", Days: 365}
)

// DaysWindow builds a window of an arbitrary number of days.
func DaysWindow(days int) Window {
	return Window{Name: fmt.Sprintf("%dd", days), Days: days}
}

// ParseWindow accepts a preset name ("1mo", "3mo", "6mo", "1y") or a plain day count.
func ParseWindow(s string) (Window, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, w := range []Window{Window1M, Window3M, Window6M, Window1Y} {
		if s == w.Name {
			return w, nil
		}
	}
	days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
	if err != nil {
		return Window{}, fmt.Errorf("invalid window %q", s)
	}
	if days < 2 {
		return Window{}, fmt.Errorf("window %q must cover at least 2 days", s)
	}
	return DaysWindow(days), nil
}
