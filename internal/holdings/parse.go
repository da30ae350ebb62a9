// Package holdings parses the "TICKER:SHARES, TICKER:SHARES" text form of a portfolio.
package holdings

import (
	"strconv"
	"strings"

	"PortfolioPulse/internal/model"
)

// Parse splits text on commas and each segment on its first colon.
// Tickers are trimmed and upper-cased, shares parsed as a real number.
// Malformed segments are skipped and returned in the second value; a later
// duplicate ticker overwrites the earlier one in place.
func Parse(text string) (model.Holdings, []string) {
	var (
		h       model.Holdings
		skipped []string
	)
	for _, seg := range strings.Split(text, ",") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		ticker, sharesText, ok := strings.Cut(seg, ":")
		if !ok {
			skipped = append(skipped, seg)
			continue
		}
		shares, err := strconv.ParseFloat(strings.TrimSpace(sharesText), 64)
		if err != nil {
			skipped = append(skipped, seg)
			continue
		}
		if err := h.Set(ticker, shares); err != nil {
			skipped = append(skipped, seg)
		}
	}
	return h, skipped
}

// Format renders holdings back into the text form accepted by Parse.
func Format(h model.Holdings) string {
	parts := make([]string, 0, h.Len())
	for _, it := range h.List() {
		parts = append(parts, it.Ticker+":"+strconv.FormatFloat(it.Shares, 'f', -1, 64))
	}
	return strings.Join(parts, ", ")
}
