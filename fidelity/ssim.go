package fidelity

import (
	"image"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/yyyoichi/stegano_lsb/internal/pixels"
)

const (
	ssimWindow = 11
	ssimK1     = 0.01
	ssimK2     = 0.03
	ssimL      = 255.0
)

var (
	ssimC1 = (ssimK1 * ssimL) * (ssimK1 * ssimL)
	ssimC2 = (ssimK2 * ssimL) * (ssimK2 * ssimL)
)

// SSIM returns the structural similarity of a and b: the mean over an 11x11
// uniform sliding window (valid positions only), averaged over R, G and B.
// Images smaller than the window are compared as a single window.
func SSIM(a, b image.Image) (float64, error) {
	return ssim(pixels.New(a), pixels.New(b))
}

func ssim(a, b pixels.ImageSource) (float64, error) {
	if err := checkPair(a, b); err != nil {
		return 0, err
	}
	var (
		wg     sync.WaitGroup
		scores [pixels.Channels]float64
	)
	for ch := range pixels.Channels {
		wg.Add(1)
		go func(ch int) {
			defer wg.Done()
			scores[ch] = ssimPlane(a.Plane(ch), b.Plane(ch), a.Width(), a.Height())
		}(ch)
	}
	wg.Wait()
	return stat.Mean(scores[:], nil), nil
}

func ssimPlane(a, b []float64, w, h int) float64 {
	if w < ssimWindow || h < ssimWindow {
		return ssimGlobal(a, b)
	}

	sa := newIntegral(w, h, func(i int) float64 { return a[i] })
	sb := newIntegral(w, h, func(i int) float64 { return b[i] })
	saa := newIntegral(w, h, func(i int) float64 { return a[i] * a[i] })
	sbb := newIntegral(w, h, func(i int) float64 { return b[i] * b[i] })
	sab := newIntegral(w, h, func(i int) float64 { return a[i] * b[i] })

	const n = ssimWindow * ssimWindow
	nw, nh := w-ssimWindow+1, h-ssimWindow+1
	values := make([]float64, 0, nw*nh)
	for y := range nh {
		for x := range nw {
			ma := sa.sum(x, y, ssimWindow) / n
			mb := sb.sum(x, y, ssimWindow) / n
			va := saa.sum(x, y, ssimWindow)/n - ma*ma
			vb := sbb.sum(x, y, ssimWindow)/n - mb*mb
			cov := sab.sum(x, y, ssimWindow)/n - ma*mb
			values = append(values, ssimIndex(ma, mb, va, vb, cov))
		}
	}
	return stat.Mean(values, nil)
}

func ssimGlobal(a, b []float64) float64 {
	ma, va := stat.PopMeanVariance(a, nil)
	mb, vb := stat.PopMeanVariance(b, nil)
	var cov float64
	if n := float64(len(a)); n > 1 {
		// stat.Covariance is the unbiased estimator.
		cov = stat.Covariance(a, b, nil) * (n - 1) / n
	}
	return ssimIndex(ma, mb, va, vb, cov)
}

func ssimIndex(ma, mb, va, vb, cov float64) float64 {
	num := (2*ma*mb + ssimC1) * (2*cov + ssimC2)
	den := (ma*ma + mb*mb + ssimC1) * (va + vb + ssimC2)
	return num / den
}

// integral is a summed-area table with one row and column of zero padding.
type integral struct {
	stride int
	v      []float64
}

func newIntegral(w, h int, f func(i int) float64) integral {
	t := integral{stride: w + 1, v: make([]float64, (w+1)*(h+1))}
	for y := range h {
		var row float64
		for x := range w {
			row += f(y*w + x)
			t.v[(y+1)*t.stride+x+1] = t.v[y*t.stride+x+1] + row
		}
	}
	return t
}

// sum returns the total over the size x size square with top-left (x, y).
func (t integral) sum(x, y, size int) float64 {
	x1, y1 := x+size, y+size
	return t.v[y1*t.stride+x1] - t.v[y*t.stride+x1] - t.v[y1*t.stride+x] + t.v[y*t.stride+x]
}
