package strategy

import (
	"fmt"

	"PortfolioPulse/internal/model"
)

// Thresholds are the annualized volatility levels (percent) above which a
// portfolio is labelled High or Balanced.
type Thresholds struct {
	High     float64 `yaml:"high"`
	Balanced float64 `yaml:"balanced"`
}

// DefaultThresholds matches the dashboards' advisory panel.
var DefaultThresholds = Thresholds{High: 35, Balanced: 15}

// Validate checks that the thresholds are ordered.
func (t Thresholds) Validate() error {
	if t.Balanced < 0 {
		return fmt.Errorf("balanced threshold must be >= 0, got %.2f", t.Balanced)
	}
	if t.High <= t.Balanced {
		return fmt.Errorf("high threshold (%.2f) must exceed balanced threshold (%.2f)", t.High, t.Balanced)
	}
	return nil
}

type tier struct {
	Above   float64
	Profile model.RiskProfile
}

// Classifier maps risk metrics to a qualitative profile.
type Classifier struct {
	tiers []tier
}

// NewClassifier builds a classifier from thresholds, highest tier first.
func NewClassifier(t Thresholds) Classifier {
	return Classifier{tiers: []tier{
		{t.High, model.ProfileHigh},
		{t.Balanced, model.ProfileBalanced},
	}}
}

// ClassifyVolatility maps an annualized volatility (percent) to a profile.
func (c Classifier) ClassifyVolatility(volatilityPct float64) model.RiskProfile {
	for _, t := range c.tiers {
		if volatilityPct > t.Above {
			return t.Profile
		}
	}
	return model.ProfileConservative
}

// Classify returns ProfileUnknown when volatility is not available.
func (c Classifier) Classify(m model.RiskMetrics) model.RiskProfile {
	if !m.Available {
		return model.ProfileUnknown
	}
	return c.ClassifyVolatility(m.VolatilityPct)
}

// Advice is the one-line advisory text for a profile.
func Advice(p model.RiskProfile) string {
	switch p {
	case model.ProfileHigh:
		return "High volatility: large daily swings, consider trimming concentrated positions."
	case model.ProfileBalanced:
		return "Balanced: moderate swings, in line with a broad equity index."
	case model.ProfileConservative:
		return "Conservative: low volatility, returns are likely to be steady but modest."
	default:
		return "Not enough price history to assess risk yet."
	}
}
