package zwo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned when an operation requires a live
	// device handle and there is none
	ErrNotInitialized = errors.New("asi: camera not initialized")

	// ErrAborted is returned when an exposure is cancelled by the caller.
	// It is an expected outcome, not a device fault.
	ErrAborted = errors.New("asi: exposure aborted")

	// ErrUnsupportedFormat is returned when a pixel format outside the
	// closed mono8/mono16/rgb24 set reaches the driver
	ErrUnsupportedFormat = errors.New("asi: unsupported image format")

	// ErrNoCooler is returned when cooling is requested on a camera
	// without a thermoelectric cooler
	ErrNoCooler = errors.New("asi: camera has no cooling support")
)

// InvalidParameterError is returned for geometry or binning values the
// driver rejects before touching the device
type InvalidParameterError struct {
	// Param is the name of the offending parameter
	Param string

	// Value is the rejected value
	Value interface{}
}

func (e InvalidParameterError) Error() string {
	return fmt.Sprintf("asi: invalid %s: %v", e.Param, e.Value)
}

// ReadoutError is returned when the device reports a failed exposure or
// the frame download goes wrong.  Status carries the device exposure
// status for diagnostics.
type ReadoutError struct {
	// Status is the device-reported exposure status
	Status ExposureStatus

	// Err is the underlying device error, if there is one
	Err error
}

func (e ReadoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("asi: could not capture image: %v (status %s)", e.Err, e.Status)
	}
	return fmt.Sprintf("asi: could not capture image: status %s", e.Status)
}

// Unwrap returns the underlying device error
func (e ReadoutError) Unwrap() error {
	return e.Err
}
