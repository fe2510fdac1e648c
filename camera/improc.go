// this file contains a few small image processing utilities used for
// jpg/png previews; FITS is the scientific output path
package camera

import "image"

// ToImage converts a frame to an 8-bit image for preview purposes.
// Mono frames become *image.Gray, color frames *image.RGBA.  16-bit data
// is scaled down to 8 bits.
func ToImage(f *Frame) image.Image {
	shift := uint(0)
	if f.BitDepth == 16 {
		shift = 8
	}
	rect := image.Rect(0, 0, f.Width, f.Height)
	if len(f.Planes) == 1 {
		im := image.NewGray(rect)
		for idx, v := range f.Planes[0] {
			im.Pix[idx] = byte(v >> shift)
		}
		return im
	}
	im := image.NewRGBA(rect)
	for idx := 0; idx < f.Width*f.Height; idx++ {
		im.Pix[4*idx+0] = byte(f.Planes[0][idx] >> shift)
		im.Pix[4*idx+1] = byte(f.Planes[1][idx] >> shift)
		im.Pix[4*idx+2] = byte(f.Planes[2][idx] >> shift)
		im.Pix[4*idx+3] = 255
	}
	return im
}
