package fidelity

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/yyyoichi/stegano_lsb/internal/pixels"
)

// Entropy returns the Shannon entropy, in bits, of the histogram of all
// R, G and B sample values of img.
func Entropy(img image.Image) (float64, error) {
	src := pixels.New(img)
	if src.Area() == 0 {
		return 0, ErrEmptyImage
	}
	return entropy(src), nil
}

func entropy(src pixels.ImageSource) float64 {
	var hist [256]float64
	pix := src.Pix()
	for _, v := range pix {
		hist[v]++
	}
	n := float64(len(pix))
	for i := range hist {
		hist[i] /= n
	}
	return stat.Entropy(hist[:]) / math.Ln2
}
