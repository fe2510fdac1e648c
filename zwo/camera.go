package zwo

import (
	"fmt"
	"strings"

	"github.com/openobs/asihttp/camera"

	"github.com/astrogo/fitsio"
)

// sdkFormats is the closed mapping from generic pixel formats to vendor
// format codes.  Membership here is what SetImageFormat validates against;
// the exposure path trusts it.
var sdkFormats = map[camera.ImageFormat]ImgType{
	camera.Mono8:  ImgRaw8,
	camera.Mono16: ImgRaw16,
	camera.RGB24:  ImgRGB24,
}

// phase is the position of the exposure state machine
type phase int

const (
	phaseIdle phase = iota
	phaseExposing
	phaseReadout
)

// Camera is a ZWO ASI camera.  It composes a Device with the window,
// binning, and format state programmed into the sensor at exposure time.
//
// A Camera is owned by a single goroutine; callers that share one must
// serialize access themselves, which the HTTP wrapper in pkg camera does.
type Camera struct {
	dev Device

	info Info

	window camera.AOI

	binning int

	format camera.ImageFormat

	phase phase
}

// New initializes a camera on an open device.  It queries the static
// properties, stops any video capture or stale exposure left by a previous
// client, and programs the boot defaults: gain 150, white balance 75/99,
// gamma 50, brightness 50, no flip, no dark subtraction, 16-bit raw,
// full frame, bin 1.
func New(dev Device) (*Camera, error) {
	if dev == nil {
		return nil, ErrNotInitialized
	}
	info, err := dev.Info()
	if err != nil {
		return nil, fmt.Errorf("querying camera properties: %w", err)
	}
	c := &Camera{
		dev:     dev,
		info:    info,
		window:  camera.AOI{Width: info.MaxWidth, Height: info.MaxHeight},
		binning: 1,
		format:  camera.Mono16,
	}
	if err := dev.DisableDarkSubtract(); err != nil {
		return nil, fmt.Errorf("disabling dark subtraction: %w", err)
	}
	// sensible defaults; adjust via Configure for specific optics
	defaults := []struct {
		c Control
		v int
	}{
		{ControlGain, 150},
		{ControlWhiteBalanceB, 99},
		{ControlWhiteBalanceR, 75},
		{ControlGamma, 50},
		{ControlBrightness, 50},
		{ControlFlip, 0},
	}
	for _, d := range defaults {
		if err := dev.SetControl(d.c, d.v); err != nil {
			return nil, fmt.Errorf("programming boot defaults: %w", err)
		}
	}
	// enable snapshot mode
	if err := dev.StopVideoCapture(); err != nil {
		return nil, fmt.Errorf("leaving video mode: %w", err)
	}
	if err := dev.StopExposure(); err != nil {
		return nil, fmt.Errorf("clearing stale exposure: %w", err)
	}
	return c, nil
}

// Info returns the camera's static properties
func (c *Camera) Info() Info {
	return c.info
}

// Close releases the device handle.  The camera is unusable afterwards.
func (c *Camera) Close() error {
	if c.dev == nil {
		return ErrNotInitialized
	}
	err := c.dev.Close()
	c.dev = nil
	return err
}

// Configure takes a map of control names (see Controls) to values and
// writes each to the device.  All writes are attempted; the errors are
// aggregated.
func (c *Camera) Configure(settings map[string]int) error {
	if c.dev == nil {
		return ErrNotInitialized
	}
	var errs []string
	for k, v := range settings {
		ctl, ok := Controls[k]
		if !ok {
			errs = append(errs, fmt.Sprintf("%s is not a known control", k))
			continue
		}
		if err := c.dev.SetControl(ctl, v); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", k, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("asi: configure: %s", strings.Join(errs, "\n"))
	}
	return nil
}

// GetWindow returns the window used by subsequent exposures
func (c *Camera) GetWindow() (camera.AOI, error) {
	return c.window, nil
}

// SetWindow sets the window used by subsequent exposures.  The geometry is
// validated against the sensor; it is programmed into the device when an
// exposure starts.
func (c *Camera) SetWindow(aoi camera.AOI) error {
	if aoi.Left < 0 || aoi.Top < 0 {
		return InvalidParameterError{Param: "window origin", Value: aoi}
	}
	if aoi.Width < 1 || aoi.Height < 1 ||
		aoi.Left+aoi.Width > c.info.MaxWidth || aoi.Top+aoi.Height > c.info.MaxHeight {
		return InvalidParameterError{Param: "window", Value: aoi}
	}
	c.window = aoi
	return nil
}

// FullFrame returns the window spanning the whole sensor
func (c *Camera) FullFrame() (camera.AOI, error) {
	return camera.AOI{Width: c.info.MaxWidth, Height: c.info.MaxHeight}, nil
}

// GetBinning returns the binning used by subsequent exposures
func (c *Camera) GetBinning() (camera.Binning, error) {
	return camera.Binning{H: c.binning, V: c.binning}, nil
}

// SetBinning sets the binning used by subsequent exposures.  ASI cameras
// bin symmetrically, so H and V must agree.
func (c *Camera) SetBinning(b camera.Binning) error {
	if b.H != b.V {
		return InvalidParameterError{Param: "binning", Value: fmt.Sprintf("%dx%d, must be symmetric", b.H, b.V)}
	}
	if b.H < 1 {
		return InvalidParameterError{Param: "binning", Value: b.H}
	}
	c.binning = b.H
	return nil
}

// ListBinnings returns the binnings supported by the hardware
func (c *Camera) ListBinnings() ([]camera.Binning, error) {
	out := make([]camera.Binning, 0, len(c.info.SupportedBins))
	for _, b := range c.info.SupportedBins {
		out = append(out, camera.Binning{H: b, V: b})
	}
	return out, nil
}

// GetImageFormat returns the pixel format used by subsequent exposures
func (c *Camera) GetImageFormat() (camera.ImageFormat, error) {
	return c.format, nil
}

// SetImageFormat sets the pixel format used by subsequent exposures.
// The format is validated against the closed format table here, once,
// so the exposure path never sees an unknown format.
func (c *Camera) SetImageFormat(f camera.ImageFormat) error {
	if _, ok := sdkFormats[f]; !ok {
		return ErrUnsupportedFormat
	}
	c.format = f
	return nil
}

// ListImageFormats returns the formats supported by the driver
func (c *Camera) ListImageFormats() ([]camera.ImageFormat, error) {
	return []camera.ImageFormat{camera.Mono8, camera.Mono16, camera.RGB24}, nil
}

// GetTemperature gets the sensor temperature in Celsius.  The device
// reports tenths of a degree.
func (c *Camera) GetTemperature() (float64, error) {
	if c.dev == nil {
		return 0, ErrNotInitialized
	}
	t, err := c.dev.GetControl(ControlTemperature)
	return float64(t) / 10.0, err
}

// CollectHeaderMetadata produces FITS cards describing the device, as
// opposed to the per-exposure cards carried on each frame
func (c *Camera) CollectHeaderMetadata() []fitsio.Card {
	cards := []fitsio.Card{
		{Name: "HDRVER", Value: WRAPVER, Comment: "camera wrapper header version"},
		{Name: "DETECTOR", Value: c.info.Name, Comment: "detector name"},
	}
	if t, err := c.GetTemperature(); err == nil {
		cards = append(cards, fitsio.Card{Name: "CCD-TEMP", Value: t, Comment: "Sensor temperature [C]"})
	}
	return cards
}
