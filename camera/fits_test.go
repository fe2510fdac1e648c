package camera

import (
	"bytes"
	"testing"

	"github.com/astrogo/fitsio"
)

func TestWriteFitsMono(t *testing.T) {
	f := &Frame{
		Width:    4,
		Height:   2,
		BitDepth: 16,
		Format:   Mono16,
		Planes:   [][]uint16{make([]uint16, 8)},
		Meta:     []fitsio.Card{{Name: "INSTRUME", Value: "test"}},
	}
	buf := bytes.Buffer{}
	if err := WriteFits(&buf, f); err != nil {
		t.Fatal(err)
	}
	b := buf.Bytes()
	if !bytes.HasPrefix(b, []byte("SIMPLE")) {
		t.Error("output does not start with a FITS primary header")
	}
	if len(b)%2880 != 0 {
		t.Errorf("output is %d bytes, not a whole number of FITS blocks", len(b))
	}
	if !bytes.Contains(b, []byte("INSTRUME")) {
		t.Error("metadata card not written to header")
	}
	if !bytes.Contains(b, []byte("BZERO")) {
		t.Error("16-bit data written without the unsigned convention")
	}
}

func TestWriteFitsColorCube(t *testing.T) {
	f := &Frame{
		Width:    2,
		Height:   2,
		BitDepth: 8,
		Format:   RGB24,
		Planes:   [][]uint16{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 11, 12}},
	}
	buf := bytes.Buffer{}
	if err := WriteFits(&buf, f); err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(buf.Bytes(), []byte("BZERO")) {
		t.Error("8-bit data written with the unsigned convention")
	}
	if !bytes.Contains(buf.Bytes(), []byte("NAXIS3")) {
		t.Error("color frame not written as a cube")
	}
}

func TestWriteFitsRejectsBadGeometry(t *testing.T) {
	f := &Frame{
		Width:    4,
		Height:   4,
		BitDepth: 8,
		Format:   Mono8,
		Planes:   [][]uint16{make([]uint16, 3)},
	}
	if err := WriteFits(&bytes.Buffer{}, f); err == nil {
		t.Error("plane shorter than the geometry accepted")
	}
}
