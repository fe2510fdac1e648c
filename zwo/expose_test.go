package zwo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/openobs/asihttp/camera"

	"github.com/astrogo/fitsio"
)

func mustCamera(t *testing.T, sim *Sim) *Camera {
	t.Helper()
	c, err := New(sim)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sim.Stopped = 0
	return c
}

func card(t *testing.T, cards []fitsio.Card, name string) fitsio.Card {
	t.Helper()
	for _, c := range cards {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no %s card in header", name)
	return fitsio.Card{}
}

func TestExposeMono16Shape(t *testing.T) {
	sim := NewSim()
	c := mustCamera(t, sim)
	f, err := c.Expose(context.Background(), time.Millisecond, true)
	if err != nil {
		t.Fatal(err)
	}
	if f.Width != 1280 || f.Height != 960 {
		t.Errorf("frame is %dx%d, expected 1280x960", f.Width, f.Height)
	}
	if len(f.Planes) != 1 || len(f.Planes[0]) != 1280*960 {
		t.Errorf("expected one full plane, got %d planes", len(f.Planes))
	}
	if f.BitDepth != 16 || f.Format != camera.Mono16 {
		t.Errorf("frame is %d-bit %v, expected 16-bit mono16", f.BitDepth, f.Format)
	}
}

func TestExposeMono8Shape(t *testing.T) {
	sim := NewSim()
	c := mustCamera(t, sim)
	if err := c.SetImageFormat(camera.Mono8); err != nil {
		t.Fatal(err)
	}
	f, err := c.Expose(context.Background(), time.Millisecond, true)
	if err != nil {
		t.Fatal(err)
	}
	if f.BitDepth != 8 || len(f.Planes) != 1 {
		t.Errorf("got %d-bit with %d planes, expected 8-bit mono", f.BitDepth, len(f.Planes))
	}
	if f.Planes[0][0] != sim.Fill {
		t.Errorf("pixel 0 = %d, expected %d", f.Planes[0][0], sim.Fill)
	}
}

func TestExposeRGBPlanarOrder(t *testing.T) {
	sim := NewSim()
	sim.ColorPixel = [3]byte{10, 20, 30} // interleaved BGR on the wire
	c := mustCamera(t, sim)
	if err := c.SetImageFormat(camera.RGB24); err != nil {
		t.Fatal(err)
	}
	f, err := c.Expose(context.Background(), time.Millisecond, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Planes) != 3 {
		t.Fatalf("expected 3 planes, got %d", len(f.Planes))
	}
	// planes are R, G, B
	if f.Planes[0][0] != 30 || f.Planes[1][0] != 20 || f.Planes[2][0] != 10 {
		t.Errorf("planar pixel = (%d,%d,%d), expected (30,20,10)",
			f.Planes[0][0], f.Planes[1][0], f.Planes[2][0])
	}
}

func TestExposeBinnedWindow(t *testing.T) {
	sim := NewSim()
	c := mustCamera(t, sim)
	if err := c.SetWindow(camera.AOI{Left: 0, Top: 0, Width: 100, Height: 100}); err != nil {
		t.Fatal(err)
	}
	if err := c.SetBinning(camera.Binning{H: 2, V: 2}); err != nil {
		t.Fatal(err)
	}
	f, err := c.Expose(context.Background(), time.Millisecond, true)
	if err != nil {
		t.Fatal(err)
	}
	if f.Width != 50 || f.Height != 50 {
		t.Errorf("binned frame is %dx%d, expected 50x50", f.Width, f.Height)
	}
	cards := f.Meta
	if v := card(t, cards, "XBINNING").Value; v != 2 {
		t.Errorf("XBINNING = %v, expected 2", v)
	}
}

func TestExposeAbort(t *testing.T) {
	sim := NewSim()
	c := mustCamera(t, sim)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	_, err := c.Expose(ctx, time.Minute, true)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("abort took %v, expected about one poll interval", elapsed)
	}
	if sim.Stopped != 1 {
		t.Errorf("StopExposure called %d times, expected 1", sim.Stopped)
	}
	if c.phase != phaseIdle {
		t.Errorf("camera left in phase %d, expected idle", c.phase)
	}
}

func TestExposeAbortStopFailure(t *testing.T) {
	sim := NewSim()
	c := mustCamera(t, sim)
	sim.StopErr = errors.New("device wedged")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Expose(ctx, time.Minute, true)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if !strings.Contains(err.Error(), "device wedged") {
		t.Errorf("stop failure not surfaced: %v", err)
	}
}

func TestExposeFailedStatus(t *testing.T) {
	sim := NewSim()
	sim.FailStatus = true
	c := mustCamera(t, sim)
	_, err := c.Expose(context.Background(), time.Millisecond, true)
	var rerr ReadoutError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected ReadoutError, got %v", err)
	}
	if rerr.Status != ExposureFailed {
		t.Errorf("error carries status %v, expected failed", rerr.Status)
	}
}

func TestExposeGeometryMismatch(t *testing.T) {
	sim := NewSim()
	sim.BadEcho = &ROI{Width: 64, Height: 64, Bin: 1, Type: ImgRaw8}
	c := mustCamera(t, sim)
	_, err := c.Expose(context.Background(), time.Millisecond, true)
	var rerr ReadoutError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected ReadoutError, got %v", err)
	}
}

func TestExposeStatisticsCards(t *testing.T) {
	sim := NewSim()
	sim.Fill = 1234
	c := mustCamera(t, sim)
	f, err := c.Expose(context.Background(), time.Millisecond, true)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"DATAMIN", "DATAMAX"} {
		if v := card(t, f.Meta, name).Value; v != 1234.0 {
			t.Errorf("%s = %v, expected 1234", name, v)
		}
	}
	if v := card(t, f.Meta, "DATAMEAN").Value; v != 1234.0 {
		t.Errorf("DATAMEAN = %v, expected 1234", v)
	}
	if v := card(t, f.Meta, "EXPTIME").Value; v != 0.001 {
		t.Errorf("EXPTIME = %v, expected 0.001", v)
	}
	if v := card(t, f.Meta, "DET-PIXL").Value; v != 0.00375 {
		t.Errorf("DET-PIXL = %v, expected 0.00375", v)
	}
	if v := card(t, f.Meta, "BAYERPAT").Value; v != "GBRG" {
		t.Errorf("BAYERPAT = %v, expected GBRG", v)
	}
	if v := card(t, f.Meta, "DATE-OBS").Value.(string); len(v) != len("2006-01-02T15:04:05.000000") {
		t.Errorf("DATE-OBS %q has unexpected layout", v)
	}
}

func TestExposeColorFrameOmitsBayer(t *testing.T) {
	sim := NewSim()
	c := mustCamera(t, sim)
	if err := c.SetImageFormat(camera.RGB24); err != nil {
		t.Fatal(err)
	}
	f, err := c.Expose(context.Background(), time.Millisecond, true)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range f.Meta {
		if c.Name == "BAYERPAT" || c.Name == "COLORTYP" {
			t.Errorf("RGB frame carries %s card", c.Name)
		}
	}
}

func TestExposeMicrosecondProgramming(t *testing.T) {
	sim := NewSim()
	c := mustCamera(t, sim)
	if _, err := c.Expose(context.Background(), 1500*time.Microsecond, true); err != nil {
		t.Fatal(err)
	}
	if v := sim.controls[ControlExposure]; v != 1500 {
		t.Errorf("exposure control = %d us, expected 1500", v)
	}
}

func TestExposeRejectsZeroDuration(t *testing.T) {
	sim := NewSim()
	c := mustCamera(t, sim)
	_, err := c.Expose(context.Background(), 0, true)
	var perr InvalidParameterError
	if !errors.As(err, &perr) {
		t.Fatalf("expected InvalidParameterError, got %v", err)
	}
}

func TestExposeNotInitialized(t *testing.T) {
	c := mustCamera(t, NewSim())
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Expose(context.Background(), time.Millisecond, true); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestDecodeRejectsShortBuffer(t *testing.T) {
	_, err := decode(make([]byte, 10), ROI{Width: 4, Height: 4, Type: ImgRaw8})
	if err == nil {
		t.Error("expected an error for a short buffer")
	}
}
