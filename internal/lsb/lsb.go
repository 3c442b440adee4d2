package lsb

import (
	"context"
	"runtime"
	"sync"

	"github.com/yyyoichi/stegano_lsb/internal/bitconv"
	"github.com/yyyoichi/stegano_lsb/internal/pixels"
)

// minBandRows keeps small images on a single goroutine.
const minBandRows = 32

const maxSizeHint = 1 << 16

// Capacity returns how many payload bytes fit into area pixels once the
// terminator is paid for. The result is negative when the terminator alone
// does not fit.
func Capacity(area, channels, depth int) int {
	return area*channels*depth/8 - bitconv.TerminatorLen
}

// Embed writes stream into the lowest depth bits of the selected channels of src,
// walking pixels in raster order and channels in the order given.
// src is modified in place. Channels past the end of the stream are left untouched.
func Embed(ctx context.Context, src pixels.ImageSource, stream *bitconv.Stream, depth int, selected []int) error {
	var (
		width    = src.Width()
		perPixel = len(selected) * depth
		total    = stream.Len()
		pix      = src.Pix()
		mask     = uint8(1<<depth - 1)
	)
	if perPixel == 0 || width == 0 {
		return nil
	}
	pixelsNeeded := min((total+perPixel-1)/perPixel, src.Area())
	rowsNeeded := (pixelsNeeded + width - 1) / width

	// The cursor of any pixel is a linear function of its index,
	// so each band can start without knowing what the previous bands wrote.
	embedRows := func(y0, y1 int) error {
		for y := y0; y < y1; y++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			for x := range width {
				p := y*width + x
				cursor := p * perPixel
				if cursor >= total {
					return nil
				}
				for _, c := range selected {
					v, got := stream.Chunk(cursor, depth)
					if got == 0 {
						return nil
					}
					at := p*pixels.Channels + c
					if got == depth {
						pix[at] = pix[at]&^mask | v
					} else {
						// tail of the stream: fill the high end of the field, keep the rest
						shift := uint(depth - got)
						keep := pix[at] & (1<<shift - 1)
						pix[at] = pix[at]&^mask | v<<shift | keep
					}
					cursor += depth
				}
			}
		}
		return nil
	}

	bands := max(1, min(runtime.GOMAXPROCS(0), rowsNeeded/minBandRows))
	if bands == 1 {
		return embedRows(0, rowsNeeded)
	}

	var (
		wg   sync.WaitGroup
		errs = make([]error, bands)
		step = (rowsNeeded + bands - 1) / bands
	)
	wg.Add(bands)
	for b := range bands {
		go func(b int) {
			defer wg.Done()
			y0 := b * step
			y1 := min(y0+step, rowsNeeded)
			if y0 < y1 {
				errs[b] = embedRows(y0, y1)
			}
		}(b)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Extract reads the lowest depth bits of the selected channels of src in the same
// order Embed writes them. It stops as soon as the terminator is decoded; otherwise
// it consumes the whole image.
func Extract(ctx context.Context, src pixels.ImageSource, depth int, selected []int) (*bitconv.Accumulator, error) {
	var (
		width = src.Width()
		pix   = src.Pix()
		mask  = uint8(1<<depth - 1)
		acc   = bitconv.NewAccumulator(min(src.Area()*len(selected)*depth/8, maxSizeHint))
	)
	for y := range src.Height() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for x := range width {
			at := (y*width + x) * pixels.Channels
			for _, c := range selected {
				if acc.Push(pix[at+c]&mask, depth) {
					return acc, nil
				}
			}
		}
	}
	return acc, nil
}
