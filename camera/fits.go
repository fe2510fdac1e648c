package camera

import (
	"fmt"
	"io"

	"github.com/astrogo/fitsio"
)

// WriteFits streams the frame to w as a FITS file.  Metadata is the frame's
// own cards followed by any extra cards the caller supplies.  Color frames
// are written as a Width x Height x 3 cube with planes in R, G, B order.
//
// Data is always written with BITPIX 16.  16-bit frames use the standard
// BZERO 32768 unsigned convention; 8-bit data fits in int16 directly.
func WriteFits(w io.Writer, f *Frame, extra ...fitsio.Card) error {
	for _, p := range f.Planes {
		if len(p) != f.Width*f.Height {
			return fmt.Errorf("frame plane holds %d samples, geometry %dx%d needs %d",
				len(p), f.Width, f.Height, f.Width*f.Height)
		}
	}
	fits, err := fitsio.Create(w)
	if err != nil {
		return err
	}
	defer fits.Close()
	dims := []int{f.Width, f.Height}
	if len(f.Planes) > 1 {
		dims = append(dims, len(f.Planes))
	}
	im := fitsio.NewImage(16, dims)
	defer im.Close()
	cards := make([]fitsio.Card, 0, len(f.Meta)+len(extra)+2)
	cards = append(cards, f.Meta...)
	cards = append(cards, extra...)
	if f.BitDepth == 16 {
		cards = append(cards,
			fitsio.Card{Name: "BZERO", Value: 32768},
			fitsio.Card{Name: "BSCALE", Value: 1.0})
	}
	err = im.Header().Append(cards...)
	if err != nil {
		return err
	}

	buf := make([]int16, 0, f.Width*f.Height*len(f.Planes))
	for _, p := range f.Planes {
		for _, v := range p {
			if f.BitDepth == 16 {
				// underflow on uint16 produces the wrapping the FITS
				// standard wants for the BZERO convention
				buf = append(buf, int16(v-32768))
			} else {
				buf = append(buf, int16(v))
			}
		}
	}
	err = im.Write(buf)
	if err != nil {
		return err
	}
	return fits.Write(im)
}
