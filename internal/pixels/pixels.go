package pixels

import (
	"image"
	"image/color"
)

// Channels is the number of colour values stored per pixel.
const Channels = 3

// ImageSource is an RGB copy of an image, flattened row-major (y outer, x inner)
// with the three channel values of a pixel stored next to each other.
type ImageSource struct {
	bounds        image.Rectangle
	width, height int
	area          int

	// R,G,B,R,G,B,...
	rgb []uint8
}

func New(src image.Image) ImageSource {
	var s ImageSource
	s.bounds = src.Bounds()
	s.width, s.height = s.bounds.Dx(), s.bounds.Dy()
	s.area = s.width * s.height
	s.rgb = make([]uint8, s.area*Channels)

	if nrgba, ok := src.(*image.NRGBA); ok {
		idx := 0
		for y := range s.height {
			row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+s.width*4]
			for x := range s.width {
				copy(s.rgb[idx:idx+Channels], row[x*4:x*4+Channels])
				idx += Channels
			}
		}
		return s
	}

	idx := 0
	for y := range s.height {
		for x := range s.width {
			c := color.NRGBAModel.Convert(src.At(s.bounds.Min.X+x, s.bounds.Min.Y+y)).(color.NRGBA)
			s.rgb[idx], s.rgb[idx+1], s.rgb[idx+2] = c.R, c.G, c.B
			idx += Channels
		}
	}
	return s
}

func (s ImageSource) Copy() ImageSource {
	tmp := make([]uint8, len(s.rgb))
	_ = copy(tmp, s.rgb)
	s.rgb = tmp
	return s
}

// Build renders the grid as an opaque image with the original bounds.
func (s ImageSource) Build() *image.NRGBA {
	var dist = image.NewNRGBA(s.bounds)
	idx := 0
	for y := range s.height {
		row := dist.Pix[y*dist.Stride : y*dist.Stride+s.width*4]
		for x := range s.width {
			copy(row[x*4:x*4+Channels], s.rgb[idx:idx+Channels])
			row[x*4+3] = 0xff
			idx += Channels
		}
	}
	return dist
}

func (s ImageSource) Bounds() image.Rectangle { return s.bounds }

func (s ImageSource) Width() int { return s.width }

func (s ImageSource) Height() int { return s.height }

// Area is the number of pixels.
func (s ImageSource) Area() int { return s.area }

// Pix exposes the backing RGB buffer. Writes are visible to the source.
func (s ImageSource) Pix() []uint8 { return s.rgb }

// Plane returns one channel as float64 values in raster order.
func (s ImageSource) Plane(channel int) []float64 {
	plane := make([]float64, s.area)
	for i := range plane {
		plane[i] = float64(s.rgb[i*Channels+channel])
	}
	return plane
}

// SameSize reports whether both grids have the same width and height.
func (s ImageSource) SameSize(o ImageSource) bool {
	return s.width == o.width && s.height == o.height
}
