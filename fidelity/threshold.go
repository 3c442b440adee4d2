package fidelity

import "math"

// Empirical band limits. They come from experiments on encoded images and must
// not be changed without re-running them.
const (
	MSELow  = 7.1765
	MSEHigh = 206.13825

	PSNRLow  = 25.0985
	PSNRHigh = 39.6945

	SSIMLow  = 0.80291
	SSIMHigh = 0.9865

	EntropyHigh = 0.02975

	BRISQUELow  = 6.309
	BRISQUEHigh = 22.79
)

// Band describes how values of one metric map to tiers.
//
// For a higher-is-better metric, values at or below Low are Bad, values at or
// below High are Warn, anything above is Good. For a lower-is-better metric,
// values at or above High are Bad and values at or above Low are Warn.
// A two-tier band has no Warn tier: only values strictly beyond High (or
// strictly below Low when higher is better) are Bad.
type Band struct {
	Low, High      float64
	HigherIsBetter bool
	TwoTier        bool

	// Min and Max bound the values the metric can take.
	Min, Max float64
}

// Thresholds maps each metric to its band.
type Thresholds map[Metric]Band

// DefaultThresholds returns the empirical bands.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MetricMSE: {
			Low: MSELow, High: MSEHigh,
			Min: 0, Max: 255 * 255,
		},
		MetricPSNR: {
			Low: PSNRLow, High: PSNRHigh, HigherIsBetter: true,
			Min: 0, Max: math.Inf(1),
		},
		MetricSSIM: {
			Low: SSIMLow, High: SSIMHigh, HigherIsBetter: true,
			Min: -1, Max: 1,
		},
		MetricEntropy: {
			High: EntropyHigh, TwoTier: true,
			Min: 0, Max: 8,
		},
		MetricBRISQUE: {
			Low: BRISQUELow, High: BRISQUEHigh,
			Min: 0, Max: math.Inf(1),
		},
	}
}

func (b Band) tier(v float64) Tier {
	switch {
	case b.HigherIsBetter && b.TwoTier:
		if v < b.Low {
			return Bad
		}
	case b.HigherIsBetter:
		if v <= b.Low {
			return Bad
		}
		if v <= b.High {
			return Warn
		}
	case b.TwoTier:
		if v > b.High {
			return Bad
		}
	default:
		if v >= b.High {
			return Bad
		}
		if v >= b.Low {
			return Warn
		}
	}
	return Good
}

func (b Band) accepts(v float64) bool {
	return !math.IsNaN(v) && v >= b.Min && v <= b.Max
}
