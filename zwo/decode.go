package zwo

import (
	"encoding/binary"
	"fmt"

	"github.com/openobs/asihttp/camera"
)

// decode converts a raw readout buffer into a Frame according to the
// echoed readout geometry.  Mono data becomes a single plane; RGB24 data
// arrives interleaved BGR and is split into planar R, G, B.
func decode(buf []byte, roi ROI) (*camera.Frame, error) {
	npx := roi.Width * roi.Height
	want := npx * roi.Type.BytesPerPixel()
	if len(buf) != want {
		return nil, fmt.Errorf("buffer is %d bytes, %dx%d %s needs %d", len(buf), roi.Width, roi.Height, roi.Type, want)
	}
	f := &camera.Frame{
		Width:  roi.Width,
		Height: roi.Height,
	}
	switch roi.Type {
	case ImgRaw8, ImgY8:
		f.BitDepth = 8
		f.Format = camera.Mono8
		plane := make([]uint16, npx)
		for i, v := range buf {
			plane[i] = uint16(v)
		}
		f.Planes = [][]uint16{plane}
	case ImgRaw16:
		f.BitDepth = 16
		f.Format = camera.Mono16
		plane := make([]uint16, npx)
		for i := 0; i < npx; i++ {
			plane[i] = binary.LittleEndian.Uint16(buf[2*i:])
		}
		f.Planes = [][]uint16{plane}
	case ImgRGB24:
		f.BitDepth = 8
		f.Format = camera.RGB24
		r := make([]uint16, npx)
		g := make([]uint16, npx)
		b := make([]uint16, npx)
		for i := 0; i < npx; i++ {
			b[i] = uint16(buf[3*i])
			g[i] = uint16(buf[3*i+1])
			r[i] = uint16(buf[3*i+2])
		}
		f.Planes = [][]uint16{r, g, b}
	default:
		return nil, ErrUnsupportedFormat
	}
	return f, nil
}
