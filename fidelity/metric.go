package fidelity

import (
	"fmt"
	"strings"
)

// Metric names one of the five classified measures.
type Metric int

const (
	MetricMSE Metric = iota
	MetricPSNR
	MetricSSIM
	// MetricEntropy is |entropy(original) - entropy(encoded)|.
	MetricEntropy
	// MetricBRISQUE is |brisque(original) - brisque(encoded)|.
	MetricBRISQUE

	NumMetrics = 5
)

var metricNames = [NumMetrics]string{"MSE", "PSNR", "SSIM", "Entropy", "BRISQUE"}

// AllMetrics lists every metric in evaluation order.
func AllMetrics() []Metric {
	return []Metric{MetricMSE, MetricPSNR, MetricSSIM, MetricEntropy, MetricBRISQUE}
}

func (m Metric) String() string {
	if m < 0 || int(m) >= NumMetrics {
		return fmt.Sprintf("Metric(%d)", int(m))
	}
	return metricNames[m]
}

// ParseMetric looks a metric up by name, ignoring case.
func ParseMetric(name string) (Metric, error) {
	for i, n := range metricNames {
		if strings.EqualFold(n, name) {
			return Metric(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
}
