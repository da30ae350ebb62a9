package holdings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioPulse/internal/model"
)

func TestParse_PreservesOrder(t *testing.T) {
	h, skipped := Parse("AAPL:10, TSLA:5")
	require.Empty(t, skipped)
	assert.Equal(t, []model.Holding{{Ticker: "AAPL", Shares: 10}, {Ticker: "TSLA", Shares: 5}}, h.List())
}

func TestParse_SkipsMalformed(t *testing.T) {
	h, skipped := Parse("AAPL:10, garbage, TSLA:5")
	assert.Equal(t, []string{"AAPL", "TSLA"}, h.Tickers())
	assert.Equal(t, []string{"garbage"}, skipped)

	shares, ok := h.Shares("tsla")
	require.True(t, ok)
	assert.Equal(t, 5.0, shares)
}

func TestParse_Edges(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		tickers []string
		skipped int
	}{
		{"empty", "", []string{}, 0},
		{"whitespace and case", "  msft : 2.5 ,goog:1", []string{"MSFT", "GOOG"}, 0},
		{"first colon only", "BRK:B:3", []string{}, 1},
		{"blank ticker", ":4", []string{}, 1},
		{"zero shares", "AAPL:0", []string{}, 1},
		{"negative shares", "TSLA:-3", []string{"TSLA"}, 0},
		{"not a number", "AAPL:ten", []string{}, 1},
		{"trailing comma", "AAPL:1,", []string{"AAPL"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, skipped := Parse(tt.in)
			assert.Equal(t, tt.tickers, h.Tickers())
			assert.Len(t, skipped, tt.skipped)
		})
	}
}

func TestParse_DuplicateOverwritesInPlace(t *testing.T) {
	h, _ := Parse("AAPL:1, TSLA:2, aapl:7")
	assert.Equal(t, []model.Holding{{Ticker: "AAPL", Shares: 7}, {Ticker: "TSLA", Shares: 2}}, h.List())
}

func TestFormat_RoundTrip(t *testing.T) {
	h, _ := Parse("AAPL:10, TSLA:5.5")
	assert.Equal(t, "AAPL:10, TSLA:5.5", Format(h))

	again, skipped := Parse(Format(h))
	assert.Empty(t, skipped)
	assert.Equal(t, h.List(), again.List())
}
