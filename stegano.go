package stegano

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/yyyoichi/stegano_lsb/internal/bitconv"
	"github.com/yyyoichi/stegano_lsb/internal/lsb"
	"github.com/yyyoichi/stegano_lsb/internal/pixels"
)

const (
	MinBitDepth = 1
	MaxBitDepth = 7

	// Terminator ends every hidden payload. It is part of the format and must
	// match between encoder and decoder.
	Terminator = bitconv.Terminator
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Encode hides payload in a copy of src with the specified options.
// This is a convenience function that creates a Codec instance and calls its Encode method.
func Encode(ctx context.Context, src image.Image, payload Payload, opts ...Option) (image.Image, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return c.Encode(ctx, src, payload)
}

// Decode recovers a payload from src with the specified options.
// This is a convenience function that creates a Codec instance and calls its Decode method.
func Decode(ctx context.Context, src image.Image, opts ...Option) (*Message, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return c.Decode(ctx, src)
}

// Codec hides data in the least significant bits of an image's colour channels.
// The bit depth and channel set are not stored in the image; the decoder must
// be configured exactly like the encoder.
type Codec struct {
	depth    int
	channels Channels
}

// New initializes a codec. Without options it uses a bit depth of 1 and all
// three channels.
func New(opts ...Option) (*Codec, error) {
	c := new(Codec)
	if err := c.init(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Codec) init(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	if c.depth == 0 {
		c.depth = MinBitDepth
	}
	c.channels = c.channels.normalize()
	return nil
}

func (c *Codec) BitDepth() int { return c.depth }

func (c *Codec) Channels() Channels { return c.channels }

// Capacity returns how many payload bytes an image of the given bounds can carry.
// It is zero when the image cannot even hold the terminator.
func (c *Codec) Capacity(rect image.Rectangle) int {
	return max(lsb.Capacity(rect.Dx()*rect.Dy(), c.channels.Len(), c.depth), 0)
}

// Encode returns a copy of src with payload hidden in it. src is not modified.
//
// Process:
//  1. Truncates payload to the capacity of the image.
//  2. Appends the terminator and expands the result to bits, most significant first.
//  3. Walks pixels row by row and, per pixel, the selected channels in R, G, B order,
//     replacing the lowest bits of each channel with the next bits of the stream.
//
// A payload that does not fit is cut silently. When even the terminator does not
// fit, as much of it as possible is written.
//
// The terminator is not escaped. A payload that ends in '=' or contains "====="
// decodes to its bytes before that point; use Recoverable to check beforehand.
func (c *Codec) Encode(ctx context.Context, src image.Image, payload Payload) (image.Image, error) {
	img := pixels.New(src)
	if err := c.enable(img); err != nil {
		return nil, err
	}
	return c.encode(ctx, img, payload)
}

// Decode recovers the payload hidden in src.
// Decoding stops at the terminator. If none is found the whole image is read and
// every complete byte is returned; this is not an error.
func (c *Codec) Decode(ctx context.Context, src image.Image) (*Message, error) {
	img := pixels.New(src)
	if err := c.enable(img); err != nil {
		return nil, err
	}
	return c.decode(ctx, img)
}

func (c *Codec) enable(img pixels.ImageSource) error {
	if img.Area() == 0 {
		return fmt.Errorf("%w: image has no pixels", ErrInvalidParameter)
	}
	return nil
}

func (c *Codec) encode(ctx context.Context, img pixels.ImageSource, payload Payload) (image.Image, error) {
	var data []byte
	if payload != nil {
		data = payload.payload()
	}
	capacity := lsb.Capacity(img.Area(), c.channels.Len(), c.depth)
	stream := bitconv.Frame(data, capacity)
	if err := lsb.Embed(ctx, img, stream, c.depth, c.channels.indices()); err != nil {
		return nil, err
	}
	return img.Build(), nil
}

func (c *Codec) decode(ctx context.Context, img pixels.ImageSource) (*Message, error) {
	acc, err := lsb.Extract(ctx, img, c.depth, c.channels.indices())
	if err != nil {
		return nil, err
	}
	return &Message{data: acc.Bytes(), terminated: acc.Terminated()}, nil
}

// Batch enables efficient multiple encode operations on a single image
// by reading its pixels once.
type Batch struct {
	original pixels.ImageSource
}

// NewBatch reads the pixels of src.
func NewBatch(src image.Image) *Batch {
	return &Batch{original: pixels.New(src)}
}

// Bounds returns the bounds of the cached image.
func (b *Batch) Bounds() image.Rectangle {
	return b.original.Bounds()
}

// Encode hides payload in a fresh copy of the cached image with specified options.
func (b *Batch) Encode(ctx context.Context, payload Payload, opts ...Option) (image.Image, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := c.enable(b.original); err != nil {
		return nil, err
	}
	return c.encode(ctx, b.original.Copy(), payload)
}

// Decode recovers a payload from the cached image with specified options.
func (b *Batch) Decode(ctx context.Context, opts ...Option) (*Message, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := c.enable(b.original); err != nil {
		return nil, err
	}
	return c.decode(ctx, b.original)
}
