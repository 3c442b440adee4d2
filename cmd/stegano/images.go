package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/yyyoichi/stegano_lsb/internal/pixels"
)

var (
	errLossyFormat       = errors.New("lossy format would destroy the hidden bits")
	errUnsupportedFormat = errors.New("unsupported image format")
)

// loadImage decodes png, jpeg, gif, bmp, tiff or webp into an NRGBA image.
func loadImage(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if nrgba, ok := src.(*image.NRGBA); ok {
		return nrgba, nil
	}
	dst := image.NewNRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst, nil
}

// saveImage encodes img by the extension of path. Only lossless formats are accepted.
func saveImage(path string, img image.Image) error {
	var encode func(f *os.File) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		encode = func(f *os.File) error { return png.Encode(f, img) }
	case ".bmp":
		encode = func(f *os.File) error { return bmp.Encode(f, img) }
	case ".tif", ".tiff":
		encode = func(f *os.File) error { return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate}) }
	case ".jpg", ".jpeg", ".webp":
		return fmt.Errorf("%w: %s", errLossyFormat, ext)
	default:
		return fmt.Errorf("%w: %q", errUnsupportedFormat, ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

// parseSize parses "WxH".
func parseSize(s string) (w, h int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q, want WxH", s)
	}
	if w, err = strconv.Atoi(ws); err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("invalid width in %q", s)
	}
	if h, err = strconv.Atoi(hs); err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("invalid height in %q", s)
	}
	return w, h, nil
}

// fitImage crops src to the aspect ratio of w x h around its centre and scales it.
func fitImage(src image.Image, w, h int) *image.NRGBA {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	srcRect := bounds
	srcRatio := float64(width) / float64(height)
	targetRatio := float64(w) / float64(h)

	if srcRatio > targetRatio {
		// too wide
		newWidth := int(float64(height) * targetRatio)
		x := bounds.Min.X + (width-newWidth)/2
		srcRect = image.Rect(x, bounds.Min.Y, x+newWidth, bounds.Max.Y)
	} else if srcRatio < targetRatio {
		// too tall
		newHeight := int(float64(width) / targetRatio)
		y := bounds.Min.Y + (height-newHeight)/2
		srcRect = image.Rect(bounds.Min.X, y, bounds.Max.X, y+newHeight)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, srcRect, draw.Src, nil)
	return dst
}

// heatmap marks changed pixels. Brightness is the largest channel difference,
// stretched so that the strongest change in the image is white.
func heatmap(original, encoded image.Image) (*image.Gray, int, error) {
	a, b := pixels.New(original), pixels.New(encoded)
	if !a.SameSize(b) {
		return nil, 0, fmt.Errorf("images differ in size: %v and %v", original.Bounds(), encoded.Bounds())
	}
	pa, pb := a.Pix(), b.Pix()
	diff := make([]uint8, a.Area())
	var peak uint8
	changed := 0
	for i := range diff {
		var d uint8
		for c := range pixels.Channels {
			x, y := pa[i*pixels.Channels+c], pb[i*pixels.Channels+c]
			d = max(d, max(x, y)-min(x, y))
		}
		diff[i] = d
		peak = max(peak, d)
		if d > 0 {
			changed++
		}
	}

	out := image.NewGray(image.Rect(0, 0, a.Width(), a.Height()))
	if peak == 0 {
		return out, 0, nil
	}
	for i, d := range diff {
		out.SetGray(i%a.Width(), i/a.Width(), color.Gray{Y: uint8(int(d) * 255 / int(peak))})
	}
	return out, changed, nil
}
