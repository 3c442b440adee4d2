package fidelity

import (
	"image"
	"math"

	"github.com/yyyoichi/stegano_lsb/internal/pixels"
)

// MSE returns the mean squared error over the R, G and B samples of a and b.
// The sum is divided by the actual sample count, width*height*3.
func MSE(a, b image.Image) (float64, error) {
	return mse(pixels.New(a), pixels.New(b))
}

func mse(a, b pixels.ImageSource) (float64, error) {
	if err := checkPair(a, b); err != nil {
		return 0, err
	}
	pa, pb := a.Pix(), b.Pix()
	var sum int64
	for i := range pa {
		d := int64(pa[i]) - int64(pb[i])
		sum += d * d
	}
	return float64(sum) / float64(len(pa)), nil
}

// PSNR converts a mean squared error to decibels for 8-bit samples.
// Identical images (mse == 0) give +Inf.
func PSNR(mse float64) float64 {
	if mse == 0 {
		return math.Inf(1)
	}
	return 20 * math.Log10(255/math.Sqrt(mse))
}

// IsIdentical reports whether every R, G, B sample of a and b is equal.
func IsIdentical(a, b image.Image) bool {
	v, err := MSE(a, b)
	return err == nil && v == 0
}

func checkPair(a, b pixels.ImageSource) error {
	if !a.SameSize(b) {
		return ErrDimensionMismatch
	}
	if a.Area() == 0 {
		return ErrEmptyImage
	}
	return nil
}
