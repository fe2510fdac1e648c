package camera

import (
	"github.com/astrogo/fitsio"
)

// Frame is a decoded image from a camera.  Pixel data is channel-planar:
// mono frames have a single plane, color frames have three in R, G, B
// order.  Each plane is row-major with length Width*Height at the binned,
// device-reported geometry.  8-bit data is widened to uint16 storage but
// keeps BitDepth == 8.
type Frame struct {
	// Width is the width of each plane in pixels
	Width int

	// Height is the height of each plane in pixels
	Height int

	// BitDepth is the number of bits per sample, 8 or 16
	BitDepth int

	// Format is the pixel format the frame was captured in
	Format ImageFormat

	// Planes holds the pixel data, one plane per channel
	Planes [][]uint16

	// Meta holds the FITS cards recorded at capture time
	Meta []fitsio.Card
}

// Min returns the smallest sample over all planes
func (f *Frame) Min() uint16 {
	min := ^uint16(0)
	for _, p := range f.Planes {
		for _, v := range p {
			if v < min {
				min = v
			}
		}
	}
	return min
}

// Max returns the largest sample over all planes
func (f *Frame) Max() uint16 {
	var max uint16
	for _, p := range f.Planes {
		for _, v := range p {
			if v > max {
				max = v
			}
		}
	}
	return max
}

// Mean returns the average sample value over all planes
func (f *Frame) Mean() float64 {
	var sum float64
	var n int
	for _, p := range f.Planes {
		for _, v := range p {
			sum += float64(v)
		}
		n += len(p)
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
