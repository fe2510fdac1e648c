/*Package zwo exposes control of ZWO ASI cameras in Go.

The package is split from the vendor SDK binding (package zwo/sdk) by the
Device interface, which covers exactly the slice of the ASICamera2 call
surface the driver needs.  This keeps the exposure logic free of cgo and
lets it run against the simulator in sim.go.
*/
package zwo

import "fmt"

const (
	// WRAPVER is the wrapper code version, recorded in FITS headers.
	// Increment this when pkg zwo is updated.
	WRAPVER = 2
)

// ExposureStatus is the device-reported state of a snap exposure.
// Values match the vendor ASI_EXP_STATUS enum.
type ExposureStatus int

const (
	// ExposureIdle means the camera is ready to start an exposure
	ExposureIdle ExposureStatus = iota

	// ExposureWorking means charge is being collected
	ExposureWorking

	// ExposureSuccess means data is waiting to be downloaded
	ExposureSuccess

	// ExposureFailed means the exposure did not complete
	ExposureFailed
)

func (s ExposureStatus) String() string {
	switch s {
	case ExposureIdle:
		return "ASI_EXP_IDLE"
	case ExposureWorking:
		return "ASI_EXP_WORKING"
	case ExposureSuccess:
		return "ASI_EXP_SUCCESS"
	case ExposureFailed:
		return "ASI_EXP_FAILED"
	}
	return fmt.Sprintf("ASI_EXP_UNKNOWN(%d)", int(s))
}

// ImgType is a vendor pixel format code.  Values match the ASI_IMG_TYPE enum.
type ImgType int

const (
	// ImgRaw8 is 8-bit raw data
	ImgRaw8 ImgType = 0

	// ImgRGB24 is 24-bit interleaved BGR data
	ImgRGB24 ImgType = 1

	// ImgRaw16 is 16-bit raw data
	ImgRaw16 ImgType = 2

	// ImgY8 is 8-bit luma, color cameras only
	ImgY8 ImgType = 3
)

func (t ImgType) String() string {
	switch t {
	case ImgRaw8:
		return "ASI_IMG_RAW8"
	case ImgRGB24:
		return "ASI_IMG_RGB24"
	case ImgRaw16:
		return "ASI_IMG_RAW16"
	case ImgY8:
		return "ASI_IMG_Y8"
	}
	return fmt.Sprintf("ASI_IMG_UNKNOWN(%d)", int(t))
}

// BytesPerPixel returns the size of one pixel of this type on the wire
func (t ImgType) BytesPerPixel() int {
	switch t {
	case ImgRaw16:
		return 2
	case ImgRGB24:
		return 3
	default:
		return 1
	}
}

// Control identifies a camera control value.  Values match the vendor
// ASI_CONTROL_TYPE enum.
type Control int

const (
	// ControlGain is the analog gain
	ControlGain Control = 0

	// ControlExposure is the exposure time in microseconds
	ControlExposure Control = 1

	// ControlGamma is the gamma correction, 40..100
	ControlGamma Control = 2

	// ControlWhiteBalanceR is the red component of white balance
	ControlWhiteBalanceR Control = 3

	// ControlWhiteBalanceB is the blue component of white balance
	ControlWhiteBalanceB Control = 4

	// ControlBrightness is the pixel value offset
	ControlBrightness Control = 5

	// ControlTemperature is the sensor temperature in tenths of a degree
	// Celsius.  Read only.
	ControlTemperature Control = 8

	// ControlFlip is the image flip mode
	ControlFlip Control = 9

	// ControlCoolerPower is the cooler drive level in percent.  Read only.
	ControlCoolerPower Control = 15

	// ControlTargetTemp is the cooling setpoint in whole degrees Celsius
	ControlTargetTemp Control = 16

	// ControlCoolerOn enables the thermoelectric cooler
	ControlCoolerOn Control = 17
)

// Controls maps the names accepted by Camera.Configure to control codes
var Controls = map[string]Control{
	"Gain":          ControlGain,
	"Exposure":      ControlExposure,
	"Gamma":         ControlGamma,
	"WhiteBalanceR": ControlWhiteBalanceR,
	"WhiteBalanceB": ControlWhiteBalanceB,
	"Brightness":    ControlBrightness,
	"Flip":          ControlFlip,
	"TargetTemp":    ControlTargetTemp,
	"CoolerOn":      ControlCoolerOn,
}

// ROI describes the readout geometry programmed into the sensor.  Width
// and Height are in binned pixels; Left and Top are in unbinned pixels.
type ROI struct {
	// Left is the left pixel index, 0-based
	Left int

	// Top is the top pixel index, 0-based
	Top int

	// Width is the width in binned pixels
	Width int

	// Height is the height in binned pixels
	Height int

	// Bin is the binning factor, the same in both axes
	Bin int

	// Type is the pixel format of the readout
	Type ImgType
}

// Info holds the static properties of a camera, queried once at open
type Info struct {
	// Name is the camera name as reported by the SDK
	Name string

	// MaxWidth is the sensor width in unbinned pixels
	MaxWidth int

	// MaxHeight is the sensor height in unbinned pixels
	MaxHeight int

	// PixelSizeUM is the pixel pitch in micron
	PixelSizeUM float64

	// ElecPerADU is the sensor gain in electrons per ADU
	ElecPerADU float64

	// HasCooler is true for cameras with a thermoelectric cooler
	HasCooler bool

	// IsColor is true for cameras with a Bayer color filter array
	IsColor bool

	// BitDepth is the ADC bit depth
	BitDepth int

	// SupportedBins lists the binning factors the hardware supports
	SupportedBins []int
}

// Device is the slice of the vendor SDK the driver uses.  zwo/sdk
// implements it against libASICamera2; Sim implements it in pure Go.
type Device interface {
	// Info returns the camera's static properties
	Info() (Info, error)

	// SetControl writes a control value
	SetControl(c Control, value int) error

	// GetControl reads a control value
	GetControl(c Control) (int, error)

	// SetROI programs the readout geometry and pixel format
	SetROI(roi ROI) error

	// GetROI reads back the readout geometry the device actually uses
	GetROI() (ROI, error)

	// StartExposure begins collecting charge.  dark keeps the mechanical
	// shutter closed on cameras that have one.
	StartExposure(dark bool) error

	// StopExposure cancels an exposure in flight
	StopExposure() error

	// ExposureStatus reports the state of the exposure in flight
	ExposureStatus() (ExposureStatus, error)

	// ExposureData fills buf with the frame from a successful exposure.
	// The buffer length must match the frame size implied by GetROI.
	ExposureData(buf []byte) error

	// DisableDarkSubtract turns off on-camera dark frame subtraction
	DisableDarkSubtract() error

	// StopVideoCapture leaves video mode; snap exposures cannot start
	// while it is active
	StopVideoCapture() error

	// Close releases the camera
	Close() error
}
