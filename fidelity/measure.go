package fidelity

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/yyyoichi/stegano_lsb/internal/pixels"
)

// Pair holds a per-image score of the original and the encoded image.
type Pair struct {
	Original, Encoded float64
}

// Delta is the absolute difference of the two scores.
func (p Pair) Delta() float64 {
	return math.Abs(p.Original - p.Encoded)
}

// Metrics is the raw measurement of one original/encoded pair.
type Metrics struct {
	MSE     float64
	PSNR    float64
	SSIM    float64
	Entropy Pair
	// BRISQUE is nil when no scorer was available.
	BRISQUE *Pair
}

func (m Metrics) HasBRISQUE() bool { return m.BRISQUE != nil }

type MeasureOptions struct {
	// Scorer computes BRISQUE. Without one, Metrics.BRISQUE stays nil.
	Scorer Scorer
	// Round rounds every value to three decimals before PSNR and the deltas
	// are derived, which reproduces results recorded by earlier tooling.
	Round bool
}

// Measure computes every metric between original and encoded.
func Measure(ctx context.Context, original, encoded image.Image, opt MeasureOptions) (Metrics, error) {
	a, b := pixels.New(original), pixels.New(encoded)
	if err := checkPair(a, b); err != nil {
		return Metrics{}, err
	}
	round := func(v float64) float64 { return v }
	if opt.Round {
		round = round3
	}

	var m Metrics
	v, err := mse(a, b)
	if err != nil {
		return Metrics{}, err
	}
	m.MSE = round(v)
	m.PSNR = round(PSNR(m.MSE))

	s, err := ssim(a, b)
	if err != nil {
		return Metrics{}, err
	}
	m.SSIM = round(s)
	m.Entropy = Pair{Original: round(entropy(a)), Encoded: round(entropy(b))}

	if err := ctx.Err(); err != nil {
		return Metrics{}, err
	}
	if opt.Scorer != nil {
		var p Pair
		if p.Original, err = opt.Scorer.Score(ctx, original); err != nil {
			return Metrics{}, fmt.Errorf("failed to score original: %w", err)
		}
		if p.Encoded, err = opt.Scorer.Score(ctx, encoded); err != nil {
			return Metrics{}, fmt.Errorf("failed to score encoded: %w", err)
		}
		p.Original, p.Encoded = round(p.Original), round(p.Encoded)
		m.BRISQUE = &p
	}
	return m, nil
}

func round3(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	return math.Round(v*1000) / 1000
}
