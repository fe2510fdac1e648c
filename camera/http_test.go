package camera

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/openobs/asihttp/server"

	"goji.io"
)

// snapper is a minimal PictureTaker returning a fixed flat field
type snapper struct {
	lastTexp time.Duration
	format   ImageFormat
}

func (s *snapper) Expose(ctx context.Context, texp time.Duration, openShutter bool) (*Frame, error) {
	s.lastTexp = texp
	return &Frame{
		Width:    2,
		Height:   2,
		BitDepth: 8,
		Format:   Mono8,
		Planes:   [][]uint16{{1, 2, 3, 4}},
	}, nil
}

func (s *snapper) GetImageFormat() (ImageFormat, error) { return s.format, nil }
func (s *snapper) SetImageFormat(f ImageFormat) error   { s.format = f; return nil }
func (s *snapper) ListImageFormats() ([]ImageFormat, error) {
	return []ImageFormat{Mono8, Mono16, RGB24}, nil
}

func newServer(p PictureTaker) (*httptest.Server, *HTTPCamera) {
	h := NewHTTPCamera(p, nil)
	mux := goji.NewMux()
	h.RT().Bind(mux)
	return httptest.NewServer(mux), h
}

func TestGetFrameFits(t *testing.T) {
	snap := &snapper{}
	srv, _ := newServer(snap)
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/image?fmt=fits&exposureTime=25ms")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/fits" {
		t.Errorf("Content-Type = %s", ct)
	}
	if snap.lastTexp != 25*time.Millisecond {
		t.Errorf("exposure time = %v, expected 25ms", snap.lastTexp)
	}
}

func TestGetFrameBareNumberIsSeconds(t *testing.T) {
	snap := &snapper{}
	srv, _ := newServer(snap)
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/image?fmt=png&exposureTime=2")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if snap.lastTexp != 2*time.Second {
		t.Errorf("exposure time = %v, expected 2s", snap.lastTexp)
	}
}

func TestGetFrameRejectsUnknownFormat(t *testing.T) {
	srv, _ := newServer(&snapper{})
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/image?fmt=bmp")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status %d, expected 400", resp.StatusCode)
	}
}

func TestExposureTimeRoundTrip(t *testing.T) {
	srv, _ := newServer(&snapper{})
	defer srv.Close()
	resp, err := http.Post(srv.URL+"/exposure-time?exposureTime=250ms", "text/plain", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST status %d", resp.StatusCode)
	}
	resp, err = http.Get(srv.URL + "/exposure-time")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var f server.FloatT
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		t.Fatal(err)
	}
	if f.F64 != 0.25 {
		t.Errorf("exposure time read back %v, expected 0.25", f.F64)
	}
}

func TestImageFormatRoutesBoundForFormatter(t *testing.T) {
	srv, _ := newServer(&snapper{})
	defer srv.Close()
	body := strings.NewReader(`{"str": "mono16"}`)
	resp, err := http.Post(srv.URL+"/image-format", "application/json", body)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST status %d", resp.StatusCode)
	}
	resp, err = http.Get(srv.URL + "/image-format")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var s server.StrT
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		t.Fatal(err)
	}
	if s.Str != "mono16" {
		t.Errorf("image format read back %q, expected mono16", s.Str)
	}
}

func TestWindowRoutesAbsentForBareSnapper(t *testing.T) {
	srv, _ := newServer(&snapper{})
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/window")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status %d for a capability the driver lacks, expected 404", resp.StatusCode)
	}
}
