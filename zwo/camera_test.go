package zwo

import (
	"errors"
	"strings"
	"testing"

	"github.com/openobs/asihttp/camera"
)

func TestSetWindowRejectsOverhang(t *testing.T) {
	c := mustCamera(t, NewSim())
	bad := []camera.AOI{
		{Left: -1, Top: 0, Width: 10, Height: 10},
		{Left: 0, Top: 0, Width: 0, Height: 10},
		{Left: 1200, Top: 0, Width: 100, Height: 100},
		{Left: 0, Top: 900, Width: 100, Height: 100},
	}
	for _, aoi := range bad {
		if err := c.SetWindow(aoi); err == nil {
			t.Errorf("window %+v accepted, expected rejection", aoi)
		}
	}
	if err := c.SetWindow(camera.AOI{Left: 0, Top: 0, Width: 1280, Height: 960}); err != nil {
		t.Errorf("full frame rejected: %v", err)
	}
}

func TestSetBinningAsymmetric(t *testing.T) {
	c := mustCamera(t, NewSim())
	var perr InvalidParameterError
	if err := c.SetBinning(camera.Binning{H: 2, V: 1}); !errors.As(err, &perr) {
		t.Errorf("asymmetric binning accepted: %v", err)
	}
	if err := c.SetBinning(camera.Binning{H: 0, V: 0}); !errors.As(err, &perr) {
		t.Errorf("zero binning accepted: %v", err)
	}
}

func TestSetImageFormatValidation(t *testing.T) {
	c := mustCamera(t, NewSim())
	if err := c.SetImageFormat(camera.Mono16); err != nil {
		t.Errorf("mono16 rejected: %v", err)
	}
	if err := c.SetImageFormat(camera.ImageFormat(99)); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestConfigure(t *testing.T) {
	sim := NewSim()
	c := mustCamera(t, sim)
	if err := c.Configure(map[string]int{"Gain": 200, "Gamma": 40}); err != nil {
		t.Fatal(err)
	}
	if v := sim.controls[ControlGain]; v != 200 {
		t.Errorf("gain = %d, expected 200", v)
	}
	err := c.Configure(map[string]int{"Bogus": 1})
	if err == nil || !strings.Contains(err.Error(), "Bogus") {
		t.Errorf("unknown control not reported: %v", err)
	}
}

func TestCloseTwice(t *testing.T) {
	c := mustCamera(t, NewSim())
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("second Close: expected ErrNotInitialized, got %v", err)
	}
}

func TestListBinnings(t *testing.T) {
	c := mustCamera(t, NewSim())
	bins, err := c.ListBinnings()
	if err != nil {
		t.Fatal(err)
	}
	if len(bins) != 2 || bins[1] != (camera.Binning{H: 2, V: 2}) {
		t.Errorf("unexpected binning list %v", bins)
	}
}
