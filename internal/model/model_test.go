package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldings_SetKeepsOrderAndOverwrites(t *testing.T) {
	var h Holdings
	require.NoError(t, h.Set(" aapl ", 10))
	require.NoError(t, h.Set("MSFT", 5))
	require.NoError(t, h.Set("AAPL", -2.5))

	assert.Equal(t, []string{"AAPL", "MSFT"}, h.Tickers())
	shares, ok := h.Shares("aapl")
	assert.True(t, ok)
	assert.Equal(t, -2.5, shares)

	_, ok = h.Shares("TSLA")
	assert.False(t, ok)
}

func TestHoldings_SetRejects(t *testing.T) {
	var h Holdings
	assert.ErrorIs(t, h.Set("  ", 1), ErrBlankTicker)
	assert.ErrorIs(t, h.Set("AAPL", 0), ErrInvalidShares)
	assert.ErrorIs(t, h.Set("AAPL", math.NaN()), ErrInvalidShares)
	assert.ErrorIs(t, h.Set("AAPL", math.Inf(1)), ErrInvalidShares)
	assert.Equal(t, 0, h.Len())

	_, err := NewHoldings(Holding{Ticker: "AAPL", Shares: 1}, Holding{Ticker: "", Shares: 1})
	assert.ErrorIs(t, err, ErrBlankTicker)
}

func TestHoldings_ListIsCopy(t *testing.T) {
	h, err := NewHoldings(Holding{Ticker: "AAPL", Shares: 1})
	require.NoError(t, err)
	list := h.List()
	list[0].Shares = 99
	shares, _ := h.Shares("AAPL")
	assert.Equal(t, 1.0, shares)
}

func TestPriceSeries_LatestPrevious(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	s := PriceSeries{Points: []PricePoint{{Date: day, Close: 10}}}
	latest, ok := s.Latest()
	assert.True(t, ok)
	assert.Equal(t, 10.0, latest.Close)
	_, ok = s.Previous()
	assert.False(t, ok)

	s.Points = append(s.Points, PricePoint{Date: day.AddDate(0, 0, 1), Close: 11})
	prev, ok := s.Previous()
	assert.True(t, ok)
	assert.Equal(t, 10.0, prev.Close)

	_, ok = PriceSeries{}.Latest()
	assert.False(t, ok)
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	got := DateOf(time.Date(2024, 3, 1, 21, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), got)
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow(" 3MO ")
	require.NoError(t, err)
	assert.Equal(t, Window3M, w)

	w, err = ParseWindow("45d")
	require.NoError(t, err)
	assert.Equal(t, DaysWindow(45), w)
	assert.Equal(t, "45d", w.Name)

	_, err = ParseWindow("1")
	assert.Error(t, err)
	_, err = ParseWindow("forever")
	assert.Error(t, err)
}

func TestPortfolioSeries_Values(t *testing.T) {
	s := PortfolioSeries{Points: []SeriesPoint{{Value: 1}, {Value: 2.5}}}
	assert.Equal(t, []float64{1, 2.5}, s.Values())
}
