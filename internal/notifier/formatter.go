package notifier

import (
	"fmt"
	"html"
	"strings"

	"github.com/Rhymond/go-money"

	"PortfolioPulse/internal/model"
)

// Settings control how reports are rendered.
type Settings struct {
	Title      string
	Currency   string
	DateFormat string
}

func formatMoney(amount float64, currency string) string {
	return money.NewFromFloat(amount, currency).Display()
}

// FormatReport formats a full analysis report into a Telegram message.
func FormatReport(r *model.Report, s Settings) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", html.EscapeString(s.Title), r.GeneratedAt.Format(s.DateFormat)))
	b.WriteString(FormatValuation(r.Valuation, s))
	b.WriteString("\n")
	b.WriteString(formatTrend(r, s, r.Valuation.Warnings))
	b.WriteString("\n")
	b.WriteString(FormatRisk(r))
	return b.String()
}

// FormatValuation formats the holdings table and total.
func FormatValuation(v model.Valuation, s Settings) string {
	var b strings.Builder
	b.WriteString("💼 <b>Holdings</b>\n")
	if len(v.Rows) == 0 {
		b.WriteString("  no prices available\n")
	}
	for _, row := range v.Rows {
		change := "n/a"
		if !row.DayChangeFallback {
			change = fmt.Sprintf("%+.2f%%", row.DayChangePct)
		}
		b.WriteString(fmt.Sprintf("  %s: %g × %s = %s (%s) %.1f%%\n",
			html.EscapeString(row.Ticker), row.Shares, formatMoney(row.Price, s.Currency),
			formatMoney(row.Value.InexactFloat64(), s.Currency), change, row.Weight*100))
	}
	b.WriteString(fmt.Sprintf("  <b>Total: %s</b>\n", formatMoney(v.Total.InexactFloat64(), s.Currency)))
	b.WriteString(FormatWarnings(v.Warnings))
	return b.String()
}

// FormatTrend formats the portfolio value series summary and the tickers
// left out of it.
func FormatTrend(r *model.Report, s Settings) string {
	return formatTrend(r, s, nil)
}

// formatTrend omits warnings for tickers already listed in shown.
func formatTrend(r *model.Report, s Settings, shown []model.TickerWarning) string {
	var b strings.Builder
	t := r.Trend
	b.WriteString(fmt.Sprintf("📈 <b>Trend</b> (%s)\n", t.Window.Name))
	if len(t.Points) == 0 {
		b.WriteString("  no price history\n")
	} else {
		first, last := t.Points[0], t.Points[len(t.Points)-1]
		b.WriteString(fmt.Sprintf("  %s: %s → %s: %s",
			first.Date.Format(s.DateFormat), formatMoney(first.Value, s.Currency),
			last.Date.Format(s.DateFormat), formatMoney(last.Value, s.Currency)))
		if first.Value != 0 {
			b.WriteString(fmt.Sprintf(" (%+.2f%%)", (last.Value-first.Value)/first.Value*100))
		}
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  High: %s | Low: %s | Position: %.0f%%\n",
			formatMoney(r.TrendHigh, s.Currency), formatMoney(r.TrendLow, s.Currency), r.RangePosition*100))
		b.WriteString(fmt.Sprintf("  Max drawdown: %.2f%%\n", r.MaxDrawdownPct))
		if n := len(r.MovingAverage); n > 0 {
			b.WriteString(fmt.Sprintf("  Moving average: %s\n", formatMoney(r.MovingAverage[n-1].Value, s.Currency)))
		}
	}
	b.WriteString(FormatWarnings(unlisted(t.Warnings, shown)))
	return b.String()
}

func unlisted(ws, shown []model.TickerWarning) []model.TickerWarning {
	if len(shown) == 0 {
		return ws
	}
	seen := make(map[string]bool, len(shown))
	for _, w := range shown {
		seen[w.Ticker] = true
	}
	var out []model.TickerWarning
	for _, w := range ws {
		if !seen[w.Ticker] {
			out = append(out, w)
		}
	}
	return out
}

// FormatRisk formats the risk metrics and profile.
func FormatRisk(r *model.Report) string {
	var b strings.Builder
	m := r.Risk
	b.WriteString(fmt.Sprintf("📉 <b>Risk</b> (%d returns)\n", m.Observations))
	if !m.Available {
		b.WriteString("  Volatility: not available\n  Sharpe: not available\n")
	} else {
		b.WriteString(fmt.Sprintf("  Volatility: %.2f%% (annualized)\n", m.VolatilityPct))
		if m.SharpeDefined {
			b.WriteString(fmt.Sprintf("  Sharpe: %.2f\n", m.Sharpe))
		} else {
			b.WriteString("  Sharpe: undefined (zero variance)\n")
		}
	}
	b.WriteString(fmt.Sprintf("  Profile: <b>%s</b>\n", r.Profile))
	if r.Advice != "" {
		b.WriteString(fmt.Sprintf("  %s\n", html.EscapeString(r.Advice)))
	}
	return b.String()
}

// FormatWarnings lists excluded tickers, or returns "" when there are none.
func FormatWarnings(ws []model.TickerWarning) string {
	if len(ws) == 0 {
		return ""
	}
	var b strings.Builder
	for _, w := range ws {
		b.WriteString(fmt.Sprintf("  ⚠️ excluded %s: %s\n", html.EscapeString(w.Ticker), html.EscapeString(w.Reason)))
	}
	return b.String()
}

// FormatFailure formats a failed refresh.
func FormatFailure(err error) string {
	return fmt.Sprintf("❌ <b>Refresh failed</b>\n\n%s", html.EscapeString(err.Error()))
}

// FormatNoHoldings explains an empty portfolio, listing skipped input segments.
func FormatNoHoldings(skipped []string) string {
	msg := "ℹ️ No holdings configured."
	if len(skipped) > 0 {
		msg += "\nSkipped: " + html.EscapeString(strings.Join(skipped, ", "))
	}
	return msg
}

var htmlTags = strings.NewReplacer("<b>", "", "</b>", "")

// StripHTML removes the markup used in messages for plain-text output.
func StripHTML(text string) string {
	return html.UnescapeString(htmlTags.Replace(text))
}
