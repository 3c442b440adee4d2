package lsb

import (
	"context"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/stegano_lsb/internal/bitconv"
	"github.com/yyyoichi/stegano_lsb/internal/pixels"
)

func noise(w, h int, seed int64) pixels.ImageSource {
	rd := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{uint8(rd.Intn(256)), uint8(rd.Intn(256)), uint8(rd.Intn(256)), 255})
		}
	}
	return pixels.New(img)
}

var selections = [][]int{
	{0, 1, 2}, {0}, {1}, {2}, {0, 1}, {0, 2}, {1, 2},
}

func TestCapacity(t *testing.T) {
	assert.Equal(t, 1, Capacity(16, 3, 1))
	assert.Equal(t, -4, Capacity(4, 3, 1))
	assert.Equal(t, 400*400*3*7/8-5, Capacity(400*400, 3, 7))

	for ch := 1; ch <= 3; ch++ {
		for depth := 1; depth < 7; depth++ {
			assert.LessOrEqual(t, Capacity(100, ch, depth), Capacity(100, ch, depth+1))
		}
	}
	for depth := 1; depth <= 7; depth++ {
		assert.LessOrEqual(t, Capacity(100, 1, depth), Capacity(100, 2, depth))
		assert.LessOrEqual(t, Capacity(100, 2, depth), Capacity(100, 3, depth))
	}
}

func TestEmbedExtract(t *testing.T) {
	ctx := context.Background()
	payload := []byte("The quick brown fox jumps over the lazy dog. こんにちは")
	for depth := 1; depth <= 7; depth++ {
		for _, sel := range selections {
			original := noise(40, 30, int64(depth))
			src := original.Copy()
			capacity := Capacity(src.Area(), len(sel), depth)
			require.GreaterOrEqual(t, capacity, len(payload))

			stream := bitconv.Frame(payload, capacity)
			require.NoError(t, Embed(ctx, src, stream, depth, sel))

			acc, err := Extract(ctx, src, depth, sel)
			require.NoError(t, err)
			assert.True(t, acc.Terminated(), "depth=%d sel=%v", depth, sel)
			assert.Equal(t, payload, acc.Bytes(), "depth=%d sel=%v", depth, sel)

			// only the low bits of touched channels differ
			perPixel := len(sel) * depth
			touched := (stream.Len() + perPixel - 1) / perPixel
			mask := uint8(1<<depth - 1)
			for i, v := range src.Pix() {
				o := original.Pix()[i]
				assert.Equal(t, o&^mask, v&^mask)
				if i/pixels.Channels >= touched {
					assert.Equal(t, o, v)
				}
			}
			for i, v := range src.Pix() {
				used := false
				for _, c := range sel {
					used = used || i%pixels.Channels == c
				}
				if !used {
					assert.Equal(t, original.Pix()[i], v)
				}
			}
		}
	}
}

func TestEmbedParallelBands(t *testing.T) {
	ctx := context.Background()
	src := noise(128, 512, 7)
	sel := []int{0, 1, 2}
	capacity := Capacity(src.Area(), len(sel), 2)
	payload := make([]byte, capacity)
	rd := rand.New(rand.NewSource(1))
	for i := range payload {
		// avoid a coincidental terminator inside the payload
		payload[i] = byte('a' + rd.Intn(26))
	}
	require.NoError(t, Embed(ctx, src, bitconv.Frame(payload, capacity), 2, sel))

	acc, err := Extract(ctx, src, 2, sel)
	require.NoError(t, err)
	assert.True(t, acc.Terminated())
	assert.Equal(t, payload, acc.Bytes())
}

func TestEmbedTailChunk(t *testing.T) {
	// 1 pixel, R only, depth 3: the 40 terminator bits do not fit; only 3 are written
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{0xff, 0xff, 0xff, 0xff})
	src := pixels.New(img)
	require.NoError(t, Embed(context.Background(), src, bitconv.Frame(nil, 0), 3, []int{0}))
	// '=' starts with 0b001
	assert.Equal(t, uint8(0b11111_001), src.Pix()[0])
	assert.Equal(t, uint8(0xff), src.Pix()[1])
	assert.Equal(t, uint8(0xff), src.Pix()[2])

	// a stream ending inside a field keeps the original low bits
	s := bitconv.Frame([]byte("A"), 1) // 48 bits, depth 7 leaves a 6 bit tail
	img2 := image.NewNRGBA(image.Rect(0, 0, 7, 1))
	for x := range 7 {
		img2.SetNRGBA(x, 0, color.NRGBA{0xff, 0xff, 0xff, 0xff})
	}
	src2 := pixels.New(img2)
	require.NoError(t, Embed(context.Background(), src2, s, 7, []int{0}))
	acc, err := Extract(context.Background(), src2, 7, []int{0})
	require.NoError(t, err)
	assert.True(t, acc.Terminated())
	assert.Equal(t, []byte("A"), acc.Bytes())
	// last field: '=' tail 0b111101 in the high six bits, original low bit kept
	assert.Equal(t, uint8(0b1_111101_1), src2.Pix()[6*pixels.Channels])
}

func TestExtractUnterminated(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src := pixels.New(img)
	acc, err := Extract(context.Background(), src, 1, []int{0, 1, 2})
	require.NoError(t, err)
	assert.False(t, acc.Terminated())
	assert.Equal(t, make([]byte, 6), acc.Bytes())
}

func TestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := noise(8, 8, 1)
	err := Embed(ctx, src, bitconv.Frame([]byte("x"), 10), 1, []int{0, 1, 2})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = Extract(ctx, src, 1, []int{0, 1, 2})
	assert.ErrorIs(t, err, context.Canceled)
}
