package fidelity

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	test := []struct {
		name   string
		metric Metric
		value  float64
		tier   Tier
	}{
		{"MSE zero", MetricMSE, 0, Good},
		{"MSE below low", MetricMSE, 7.1764, Good},
		{"MSE at low", MetricMSE, MSELow, Warn},
		{"MSE below high", MetricMSE, 206.138, Warn},
		{"MSE at high", MetricMSE, 206.13825, Bad},
		{"MSE max", MetricMSE, 255 * 255, Bad},

		{"PSNR at low", MetricPSNR, 25.0985, Bad},
		{"PSNR above low", MetricPSNR, 25.0986, Warn},
		{"PSNR at high", MetricPSNR, PSNRHigh, Warn},
		{"PSNR above high", MetricPSNR, 39.6946, Good},
		{"PSNR identical", MetricPSNR, math.Inf(1), Good},
		{"PSNR zero", MetricPSNR, 0, Bad},

		{"SSIM negative", MetricSSIM, -0.5, Bad},
		{"SSIM at low", MetricSSIM, SSIMLow, Bad},
		{"SSIM above low", MetricSSIM, 0.80292, Warn},
		{"SSIM at high", MetricSSIM, SSIMHigh, Warn},
		{"SSIM one", MetricSSIM, 1, Good},

		{"Entropy zero", MetricEntropy, 0, Good},
		{"Entropy at high", MetricEntropy, EntropyHigh, Good},
		{"Entropy above high", MetricEntropy, 0.02976, Bad},

		{"BRISQUE below low", MetricBRISQUE, 6.3, Good},
		{"BRISQUE at low", MetricBRISQUE, BRISQUELow, Warn},
		{"BRISQUE below high", MetricBRISQUE, 22.78, Warn},
		{"BRISQUE at high", MetricBRISQUE, BRISQUEHigh, Bad},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Classify(tt.metric, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.metric, r.Metric)
			assert.Equal(t, tt.value, r.Value)
			assert.Equal(t, tt.tier, r.Tier)
			assert.Equal(t, tt.tier.Bit(), r.Bit)
		})
	}
}

func TestClassifyRejects(t *testing.T) {
	test := []struct {
		name   string
		metric Metric
		value  float64
		err    error
	}{
		{"NaN", MetricPSNR, math.NaN(), ErrMetricOutOfRange},
		{"negative MSE", MetricMSE, -1, ErrMetricOutOfRange},
		{"MSE over max", MetricMSE, 65025.5, ErrMetricOutOfRange},
		{"infinite MSE", MetricMSE, math.Inf(1), ErrMetricOutOfRange},
		{"SSIM over one", MetricSSIM, 1.01, ErrMetricOutOfRange},
		{"SSIM under minus one", MetricSSIM, -1.01, ErrMetricOutOfRange},
		{"negative PSNR", MetricPSNR, -3, ErrMetricOutOfRange},
		{"entropy delta over eight", MetricEntropy, 8.5, ErrMetricOutOfRange},
		{"negative BRISQUE delta", MetricBRISQUE, -0.1, ErrMetricOutOfRange},
		{"unknown metric", Metric(9), 1, ErrUnknownMetric},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(tt.metric, tt.value)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), "got %v", err)
		})
	}
}

func TestAggregate(t *testing.T) {
	test := []struct {
		bits    [NumMetrics]int
		verdict Verdict
	}{
		{[NumMetrics]int{0, 0, 0, 0, 0}, VerdictGood},
		{[NumMetrics]int{1, 1, 0, 0, 0}, VerdictGood},
		{[NumMetrics]int{0, 0, 1, 1, 0}, VerdictGood},
		{[NumMetrics]int{1, 1, 1, 0, 0}, VerdictUncertain},
		{[NumMetrics]int{0, 1, 0, 1, 1}, VerdictUncertain},
		{[NumMetrics]int{1, 1, 1, 1, 0}, VerdictBad},
		{[NumMetrics]int{1, 1, 1, 1, 1}, VerdictBad},
	}
	for _, tt := range test {
		assert.Equal(t, tt.verdict, Aggregate(tt.bits), "bits %v", tt.bits)
	}
}

func TestEvaluate(t *testing.T) {
	test := []struct {
		name    string
		metrics Metrics
		bits    [NumMetrics]int
		verdict Verdict
	}{
		{
			name: "imperceptible",
			metrics: Metrics{
				MSE: 0.5, PSNR: 51.1, SSIM: 0.999,
				Entropy: Pair{7.1, 7.101}, BRISQUE: &Pair{20, 21},
			},
			bits:    [NumMetrics]int{0, 0, 0, 0, 0},
			verdict: VerdictGood,
		},
		{
			name: "identical",
			metrics: Metrics{
				MSE: 0, PSNR: math.Inf(1), SSIM: 1,
				Entropy: Pair{6, 6}, BRISQUE: &Pair{30, 30},
			},
			bits:    [NumMetrics]int{0, 0, 0, 0, 0},
			verdict: VerdictGood,
		},
		{
			name: "three warnings",
			metrics: Metrics{
				MSE: 10, PSNR: 38.1, SSIM: 0.95,
				Entropy: Pair{7.2, 7.19}, BRISQUE: &Pair{20, 22},
			},
			bits:    [NumMetrics]int{1, 1, 1, 0, 0},
			verdict: VerdictUncertain,
		},
		{
			name: "visible",
			metrics: Metrics{
				MSE: 300, PSNR: 23.4, SSIM: 0.7,
				Entropy: Pair{7.5, 7.0}, BRISQUE: &Pair{10, 40},
			},
			bits:    [NumMetrics]int{1, 1, 1, 1, 1},
			verdict: VerdictBad,
		},
		{
			name: "delta is absolute",
			metrics: Metrics{
				MSE: 1, PSNR: 48.1, SSIM: 0.99,
				Entropy: Pair{7.0, 7.5}, BRISQUE: &Pair{40, 10},
			},
			bits:    [NumMetrics]int{0, 0, 0, 1, 1},
			verdict: VerdictGood,
		},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Evaluate(tt.metrics)
			require.NoError(t, err)
			assert.Equal(t, tt.bits, r.Bits())
			assert.Equal(t, tt.verdict, r.Verdict)
			for i, res := range r.Results {
				assert.Equal(t, Metric(i), res.Metric)
			}
		})
	}

	t.Run("missing BRISQUE", func(t *testing.T) {
		_, err := Evaluate(Metrics{MSE: 1, PSNR: 48, SSIM: 1})
		assert.ErrorIs(t, err, ErrMissingMetric)
	})
	t.Run("invalid value", func(t *testing.T) {
		_, err := Evaluate(Metrics{MSE: 1, PSNR: 48, SSIM: math.NaN(), BRISQUE: &Pair{}})
		assert.ErrorIs(t, err, ErrMetricOutOfRange)
	})
	t.Run("incomplete table", func(t *testing.T) {
		th := DefaultThresholds()
		delete(th, MetricSSIM)
		_, err := th.Evaluate(Metrics{MSE: 1, PSNR: 48, SSIM: 1, BRISQUE: &Pair{}})
		assert.ErrorIs(t, err, ErrUnknownMetric)
	})
}

func TestThresholdsAreTunable(t *testing.T) {
	th := DefaultThresholds()
	band := th[MetricMSE]
	band.High = 50
	th[MetricMSE] = band

	r, err := th.Classify(MetricMSE, 60)
	require.NoError(t, err)
	assert.Equal(t, Bad, r.Tier)

	// the defaults are a fresh table on every call
	r, err = Classify(MetricMSE, 60)
	require.NoError(t, err)
	assert.Equal(t, Warn, r.Tier)
}

func TestParseMetric(t *testing.T) {
	for _, m := range AllMetrics() {
		got, err := ParseMetric(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	m, err := ParseMetric("psnr")
	require.NoError(t, err)
	assert.Equal(t, MetricPSNR, m)

	_, err = ParseMetric("VMAF")
	assert.ErrorIs(t, err, ErrUnknownMetric)
	assert.Equal(t, "Metric(7)", Metric(7).String())
}
