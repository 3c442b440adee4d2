package main

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 9), uint8(y * 7), uint8(x*y + 3), 255})
		}
	}
	return img
}

func TestSaveLoadImage(t *testing.T) {
	dir := t.TempDir()
	src := testImage(13, 9)

	for _, name := range []string{"a.png", "a.bmp", "a.tiff", "A.PNG"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, saveImage(path, src))
			got, err := loadImage(path)
			require.NoError(t, err)
			assert.Equal(t, src.Bounds(), got.Bounds())
			for y := range 9 {
				for x := range 13 {
					require.Equal(t, src.NRGBAAt(x, y), got.NRGBAAt(x, y), "pixel (%d,%d)", x, y)
				}
			}
		})
	}

	t.Run("lossy", func(t *testing.T) {
		for _, name := range []string{"a.jpg", "a.JPEG", "a.webp"} {
			err := saveImage(filepath.Join(dir, name), src)
			assert.ErrorIs(t, err, errLossyFormat)
		}
	})
	t.Run("unknown", func(t *testing.T) {
		err := saveImage(filepath.Join(dir, "a.txt"), src)
		assert.ErrorIs(t, err, errUnsupportedFormat)
	})
	t.Run("missing", func(t *testing.T) {
		_, err := loadImage(filepath.Join(dir, "missing.png"))
		assert.Error(t, err)
	})
}

func TestParseSize(t *testing.T) {
	test := []struct {
		in   string
		w, h int
		ok   bool
	}{
		{"400x400", 400, 400, true},
		{"640X360", 640, 360, true},
		{"400", 0, 0, false},
		{"0x10", 0, 0, false},
		{"axb", 0, 0, false},
		{"10x-1", 0, 0, false},
	}
	for _, tt := range test {
		w, h, err := parseSize(tt.in)
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.w, w)
		assert.Equal(t, tt.h, h)
	}
}

func TestFitImage(t *testing.T) {
	test := []struct {
		name string
		src  image.Image
		w, h int
	}{
		{"wide", testImage(40, 10), 8, 8},
		{"tall", testImage(10, 40), 16, 8},
		{"same ratio", testImage(20, 10), 10, 5},
		{"offset bounds", testImage(30, 30).SubImage(image.Rect(5, 5, 25, 15)), 4, 2},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			got := fitImage(tt.src, tt.w, tt.h)
			assert.Equal(t, image.Rect(0, 0, tt.w, tt.h), got.Bounds())
			assert.Equal(t, uint8(255), got.NRGBAAt(tt.w/2, tt.h/2).A)
		})
	}
}

func TestHeatmap(t *testing.T) {
	a := testImage(4, 3)
	b := image.NewNRGBA(a.Rect)
	copy(b.Pix, a.Pix)
	b.Pix[0] ^= 0x01           // (0,0) R
	b.Pix[(2*4+3)*4+2] ^= 0x04 // (3,2) B

	hm, changed, err := heatmap(a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)
	assert.Equal(t, image.Rect(0, 0, 4, 3), hm.Bounds())
	assert.Equal(t, uint8(255), hm.GrayAt(3, 2).Y)
	assert.Equal(t, uint8(255/4), hm.GrayAt(0, 0).Y)
	assert.Zero(t, hm.GrayAt(1, 1).Y)

	_, changed, err = heatmap(a, a)
	require.NoError(t, err)
	assert.Zero(t, changed)

	_, _, err = heatmap(a, testImage(3, 4))
	assert.Error(t, err)
}
