package fidelity

import (
	"errors"
	"fmt"
)

var (
	ErrMetricOutOfRange  = errors.New("metric value out of range")
	ErrUnknownMetric     = errors.New("unknown metric")
	ErrMissingMetric     = errors.New("missing metric")
	ErrDimensionMismatch = errors.New("images differ in size")
	ErrEmptyImage        = errors.New("image has no pixels")
)

// Tier is the classification of a single metric value.
type Tier int

const (
	Good Tier = iota
	Warn
	Bad
)

func (t Tier) String() string {
	switch t {
	case Good:
		return "Good"
	case Warn:
		return "Warn"
	case Bad:
		return "Bad"
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// Bit is 1 when the tier means the change is perceptible.
func (t Tier) Bit() int {
	if t == Good {
		return 0
	}
	return 1
}

// Verdict is the aggregate judgement over all five metrics.
type Verdict int

const (
	VerdictGood Verdict = iota
	VerdictUncertain
	VerdictBad
)

func (v Verdict) String() string {
	switch v {
	case VerdictGood:
		return "Good"
	case VerdictUncertain:
		return "Uncertain"
	case VerdictBad:
		return "Bad"
	}
	return fmt.Sprintf("Verdict(%d)", int(v))
}

// Result is the classification of one metric.
type Result struct {
	Metric Metric
	Value  float64
	Tier   Tier
	Bit    int
}

// Report holds the result of every metric and the verdict.
type Report struct {
	Results [NumMetrics]Result
	Verdict Verdict
}

// Bits returns the perceptibility bit of every metric.
func (r *Report) Bits() [NumMetrics]int {
	var bits [NumMetrics]int
	for i, res := range r.Results {
		bits[i] = res.Bit
	}
	return bits
}

// Classify places value in the default band of metric.
func Classify(metric Metric, value float64) (Result, error) {
	return DefaultThresholds().Classify(metric, value)
}

// Classify places value in the band of metric.
// NaN and values outside the metric's range are rejected with ErrMetricOutOfRange.
func (t Thresholds) Classify(metric Metric, value float64) (Result, error) {
	band, ok := t[metric]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s has no band", ErrUnknownMetric, metric)
	}
	if !band.accepts(value) {
		return Result{}, fmt.Errorf("%w: %s = %v not in [%v, %v]", ErrMetricOutOfRange, metric, value, band.Min, band.Max)
	}
	tier := band.tier(value)
	return Result{Metric: metric, Value: value, Tier: tier, Bit: tier.Bit()}, nil
}

// Aggregate sums the perceptibility bits.
// Fewer than three is Good, exactly three is Uncertain, more is Bad.
func Aggregate(bits [NumMetrics]int) Verdict {
	var sum int
	for _, b := range bits {
		sum += b
	}
	switch {
	case sum < 3:
		return VerdictGood
	case sum == 3:
		return VerdictUncertain
	}
	return VerdictBad
}

// Evaluate classifies m with the default bands.
func Evaluate(m Metrics) (*Report, error) {
	return DefaultThresholds().Evaluate(m)
}

// Evaluate classifies every metric of m and aggregates the bits.
// All five metrics are required; without BRISQUE scores ErrMissingMetric is returned.
func (t Thresholds) Evaluate(m Metrics) (*Report, error) {
	if m.BRISQUE == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingMetric, MetricBRISQUE)
	}
	values := [NumMetrics]float64{
		MetricMSE:     m.MSE,
		MetricPSNR:    m.PSNR,
		MetricSSIM:    m.SSIM,
		MetricEntropy: m.Entropy.Delta(),
		MetricBRISQUE: m.BRISQUE.Delta(),
	}
	var r Report
	for i, v := range values {
		res, err := t.Classify(Metric(i), v)
		if err != nil {
			return nil, err
		}
		r.Results[i] = res
	}
	r.Verdict = Aggregate(r.Bits())
	return &r, nil
}
