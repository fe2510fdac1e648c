/*Package camera describes a standard set of capability interfaces for
control of scientific cameras, and a planar frame type with FITS output.

A device driver does not have to implement every interface; consumers ask
for the capabilities they need with type assertions.  The HTTP wrapper in
this package does exactly that, binding routes only for the capabilities
the wrapped driver actually has.
*/
package camera

import (
	"context"
	"fmt"
	"time"

	"github.com/astrogo/fitsio"
)

// AOI describes an area of interest (subframe window) on the camera,
// in unbinned pixels.  The origin is the top-left corner, 0-based.
type AOI struct {
	// Left is the left pixel index
	Left int `json:"left"`

	// Top is the top pixel index
	Top int `json:"top"`

	// Width is the width in pixels
	Width int `json:"width"`

	// Height is the height in pixels
	Height int `json:"height"`
}

// Binning encapsulates information about pixel addition on camera
type Binning struct {
	// H is the horizontal binning factor
	H int `json:"h"`

	// V is the vertical binning factor
	V int `json:"v"`
}

// ImageFormat is a closed enum of the pixel formats a frame can be
// captured in
type ImageFormat int

const (
	// Mono8 is 8-bit monochrome
	Mono8 ImageFormat = iota

	// Mono16 is 16-bit monochrome
	Mono16

	// RGB24 is 24-bit interleaved color, 8 bits per channel
	RGB24
)

func (f ImageFormat) String() string {
	switch f {
	case Mono8:
		return "mono8"
	case Mono16:
		return "mono16"
	case RGB24:
		return "rgb24"
	}
	return fmt.Sprintf("unknown(%d)", int(f))
}

// BitDepth returns the number of bits per channel sample
func (f ImageFormat) BitDepth() int {
	if f == Mono16 {
		return 16
	}
	return 8
}

// ParseImageFormat converts a string from String() back to an ImageFormat
func ParseImageFormat(s string) (ImageFormat, error) {
	switch s {
	case "mono8":
		return Mono8, nil
	case "mono16":
		return Mono16, nil
	case "rgb24":
		return RGB24, nil
	}
	return Mono8, fmt.Errorf("image format %q is not one of mono8, mono16, rgb24", s)
}

// PictureTaker describes an interface to a camera which can capture frames
type PictureTaker interface {
	// Expose captures a single frame.  The exposure blocks the calling
	// goroutine for its duration; cancel the context to abort it.
	Expose(ctx context.Context, texp time.Duration, openShutter bool) (*Frame, error)
}

// WindowManager describes an interface to a camera with a configurable
// readout window
type WindowManager interface {
	// GetWindow retrieves the current window
	GetWindow() (AOI, error)

	// SetWindow sets the window used by subsequent exposures
	SetWindow(AOI) error

	// FullFrame returns the window spanning the whole sensor
	FullFrame() (AOI, error)
}

// Binner describes an interface to a camera which can bin pixels on chip
type Binner interface {
	// GetBinning returns the binning used by subsequent exposures
	GetBinning() (Binning, error)

	// SetBinning sets the binning used by subsequent exposures
	SetBinning(Binning) error

	// ListBinnings returns the binnings supported by the hardware
	ListBinnings() ([]Binning, error)
}

// ImageFormatter describes an interface to a camera with selectable
// pixel formats
type ImageFormatter interface {
	// GetImageFormat returns the format used by subsequent exposures
	GetImageFormat() (ImageFormat, error)

	// SetImageFormat sets the format used by subsequent exposures.
	// Implementations validate the format here, once, not per exposure.
	SetImageFormat(ImageFormat) error

	// ListImageFormats returns the formats supported by the hardware
	ListImageFormats() ([]ImageFormat, error)
}

// ThermalManager describes an interface to a camera which can manage its
// thermal performance
type ThermalManager interface {
	// GetCooling queries if focal plane cooling is currently active
	GetCooling() (bool, error)

	// SetCooling turns focal plane cooling on or off
	SetCooling(bool) error

	// GetTemperature gets the current focal plane temperature in Celsius
	GetTemperature() (float64, error)

	// GetTemperatureSetpoint gets the cooling setpoint in Celsius
	GetTemperatureSetpoint() (float64, error)

	// SetTemperatureSetpoint sets the cooling setpoint in Celsius
	SetTemperatureSetpoint(float64) error

	// GetCoolerPower gets the thermoelectric cooler drive level in percent
	GetCoolerPower() (float64, error)
}

// MetadataMaker can produce an array of FITS cards describing the device
type MetadataMaker interface {
	// CollectHeaderMetadata produces an array of FITS cards
	CollectHeaderMetadata() []fitsio.Card
}
