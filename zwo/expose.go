package zwo

import (
	"context"
	"fmt"
	"time"

	"github.com/openobs/asihttp/camera"

	"github.com/astrogo/fitsio"
)

const (
	// pollInterval is how often the exposure status is sampled while the
	// sensor is collecting charge.  It bounds the abort latency.
	pollInterval = 10 * time.Millisecond

	// dateObsFormat is ISO-8601 with microsecond precision, the layout
	// DATE-OBS is recorded in
	dateObsFormat = "2006-01-02T15:04:05.000000"

	// bayerPattern is the color filter layout of ASI sensors, recorded
	// for mono (raw) frames so the host can debayer them
	bayerPattern = "GBRG"
)

// Expose captures a single frame.
//
// The window, binning, and pixel format last set on the camera are
// programmed into the sensor, the exposure is started, and the status is
// polled every 10ms until the device leaves the working state.  Cancelling
// ctx stops the exposure and returns ErrAborted within about one poll
// interval.  The calling goroutine is blocked for the duration.
//
// The frame geometry is taken from the device's echoed readout parameters,
// not the requested ones, since the device has the final word on binned
// dimensions.  The frame carries the capture metadata as FITS cards.
func (c *Camera) Expose(ctx context.Context, texp time.Duration, openShutter bool) (*camera.Frame, error) {
	if c.dev == nil {
		return nil, ErrNotInitialized
	}
	defer func() { c.phase = phaseIdle }()

	if c.binning < 1 {
		return nil, InvalidParameterError{Param: "binning", Value: c.binning}
	}
	imgType, ok := sdkFormats[c.format]
	if !ok {
		// unreachable through SetImageFormat, which validates membership
		return nil, ErrUnsupportedFormat
	}
	width := c.window.Width / c.binning
	height := c.window.Height / c.binning
	if width < 1 || height < 1 {
		return nil, InvalidParameterError{Param: "window", Value: c.window}
	}
	roi := ROI{
		Left:   c.window.Left,
		Top:    c.window.Top,
		Width:  width,
		Height: height,
		Bin:    c.binning,
		Type:   imgType,
	}
	if err := c.dev.SetROI(roi); err != nil {
		return nil, fmt.Errorf("programming readout geometry: %w", err)
	}

	us := texp.Microseconds()
	if us <= 0 {
		return nil, InvalidParameterError{Param: "exposure time", Value: texp}
	}
	if err := c.dev.SetControl(ControlExposure, int(us)); err != nil {
		return nil, fmt.Errorf("programming exposure time: %w", err)
	}

	// capture the timestamp before any waiting; it is the start of the
	// exposure, not the end
	dateObs := time.Now().UTC()
	c.phase = phaseExposing
	if err := c.dev.StartExposure(!openShutter); err != nil {
		return nil, fmt.Errorf("starting exposure: %w", err)
	}

	tick := time.NewTicker(pollInterval)
	defer tick.Stop()
	var status ExposureStatus
	for {
		var err error
		status, err = c.dev.ExposureStatus()
		if err != nil {
			return nil, fmt.Errorf("polling exposure status: %w", err)
		}
		if status != ExposureWorking {
			break
		}
		select {
		case <-ctx.Done():
			if serr := c.dev.StopExposure(); serr != nil {
				// the abort still stands, but the device may not be idle
				return nil, fmt.Errorf("%w; stopping device: %v", ErrAborted, serr)
			}
			return nil, ErrAborted
		case <-tick.C:
		}
	}
	if status != ExposureSuccess {
		return nil, ReadoutError{Status: status}
	}

	c.phase = phaseReadout
	echo, err := c.dev.GetROI()
	if err != nil {
		return nil, fmt.Errorf("reading back readout geometry: %w", err)
	}
	buf := make([]byte, echo.Width*echo.Height*echo.Type.BytesPerPixel())
	if err := c.dev.ExposureData(buf); err != nil {
		return nil, ReadoutError{Status: status, Err: err}
	}
	frame, err := decode(buf, echo)
	if err != nil {
		return nil, ReadoutError{Status: status, Err: err}
	}
	frame.Meta = c.exposureCards(frame, dateObs, texp)
	return frame, nil
}

// exposureCards builds the per-exposure FITS cards for a decoded frame
func (c *Camera) exposureCards(f *camera.Frame, dateObs time.Time, texp time.Duration) []fitsio.Card {
	cards := []fitsio.Card{
		{Name: "DATE-OBS", Value: dateObs.Format(dateObsFormat), Comment: "Date and time of start of exposure"},
		{Name: "EXPTIME", Value: texp.Seconds(), Comment: "Exposure time [s]"},
		{Name: "INSTRUME", Value: c.info.Name, Comment: "Name of instrument"},
		{Name: "XBINNING", Value: c.binning, Comment: "Binning factor used on X axis"},
		{Name: "DET-BIN1", Value: c.binning, Comment: "Binning factor used on X axis"},
		{Name: "YBINNING", Value: c.binning, Comment: "Binning factor used on Y axis"},
		{Name: "DET-BIN2", Value: c.binning, Comment: "Binning factor used on Y axis"},
		{Name: "XORGSUBF", Value: c.window.Left, Comment: "Subframe origin on X axis"},
		{Name: "YORGSUBF", Value: c.window.Top, Comment: "Subframe origin on Y axis"},
		{Name: "DATAMIN", Value: float64(f.Min()), Comment: "Minimum data value"},
		{Name: "DATAMAX", Value: float64(f.Max()), Comment: "Maximum data value"},
		{Name: "DATAMEAN", Value: f.Mean(), Comment: "Mean data value"},
		{Name: "DET-PIXL", Value: c.info.PixelSizeUM / 1000.0, Comment: "Size of detector pixels (square) [mm]"},
		{Name: "DET-GAIN", Value: c.info.ElecPerADU, Comment: "Detector gain [e-/ADU]"},
	}
	if f.Format != camera.RGB24 {
		cards = append(cards,
			fitsio.Card{Name: "BAYERPAT", Value: bayerPattern, Comment: "Bayer pattern for colors"},
			fitsio.Card{Name: "COLORTYP", Value: bayerPattern, Comment: "Bayer pattern for colors"})
	}
	return cards
}
