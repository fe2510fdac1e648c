/*Package sdk exposes control of ZWO ASI cameras in Go via their SDK, v2.

 */
package sdk

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lASICamera2
#include <stdlib.h>
#include <ASICamera2.h>

*/
import "C"
import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/openobs/asihttp/zwo"
)

// Camera is a handle to an open ASI camera.  It satisfies zwo.Device.
type Camera struct {
	id C.int
}

var _ zwo.Device = (*Camera)(nil)

// Enumerate returns the names of all connected ASI cameras, in index order
func Enumerate() ([]string, error) {
	n := int(C.ASIGetNumOfConnectedCameras())
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		var prop C.ASI_CAMERA_INFO
		err := enrich(Error(int(C.ASIGetCameraProperty(&prop, C.int(i)))), "ASIGetCameraProperty")
		if err != nil {
			return names, err
		}
		names = append(names, C.GoString(&prop.Name[0]))
	}
	return names, nil
}

// Open opens and initializes the camera at the given enumeration index
func Open(idx int) (*Camera, error) {
	var prop C.ASI_CAMERA_INFO
	err := enrich(Error(int(C.ASIGetCameraProperty(&prop, C.int(idx)))), "ASIGetCameraProperty")
	if err != nil {
		return nil, err
	}
	id := prop.CameraID
	err = enrich(Error(int(C.ASIOpenCamera(id))), "ASIOpenCamera")
	if err != nil {
		return nil, err
	}
	err = enrich(Error(int(C.ASIInitCamera(id))), "ASIInitCamera")
	if err != nil {
		C.ASICloseCamera(id)
		return nil, err
	}
	return &Camera{id: id}, nil
}

// OpenByName opens the first camera whose name contains name,
// case-insensitively.  An empty name opens the first camera found.
func OpenByName(name string) (*Camera, error) {
	names, err := Enumerate()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no ASI cameras connected")
	}
	for i, n := range names {
		if name == "" || strings.Contains(strings.ToLower(n), strings.ToLower(name)) {
			return Open(i)
		}
	}
	return nil, fmt.Errorf("no camera matching %q among %v", name, names)
}

// Info queries the camera's static properties
func (c *Camera) Info() (zwo.Info, error) {
	n := int(C.ASIGetNumOfConnectedCameras())
	for i := 0; i < n; i++ {
		var prop C.ASI_CAMERA_INFO
		err := enrich(Error(int(C.ASIGetCameraProperty(&prop, C.int(i)))), "ASIGetCameraProperty")
		if err != nil {
			return zwo.Info{}, err
		}
		if prop.CameraID != c.id {
			continue
		}
		info := zwo.Info{
			Name:        C.GoString(&prop.Name[0]),
			MaxWidth:    int(prop.MaxWidth),
			MaxHeight:   int(prop.MaxHeight),
			PixelSizeUM: float64(prop.PixelSize),
			ElecPerADU:  float64(prop.ElecPerADU),
			HasCooler:   prop.IsCoolerCam == C.ASI_TRUE,
			IsColor:     prop.IsColorCam == C.ASI_TRUE,
			BitDepth:    int(prop.BitDepth),
		}
		for _, b := range prop.SupportedBins {
			if b == 0 {
				break
			}
			info.SupportedBins = append(info.SupportedBins, int(b))
		}
		return info, nil
	}
	return zwo.Info{}, fmt.Errorf("camera id %d no longer enumerated", int(c.id))
}

// SetControl writes a control value with auto adjustment off
func (c *Camera) SetControl(ctl zwo.Control, value int) error {
	errCode := int(C.ASISetControlValue(c.id, C.ASI_CONTROL_TYPE(ctl), C.long(value), C.ASI_FALSE))
	return enrich(Error(errCode), "ASISetControlValue")
}

// GetControl reads a control value
func (c *Camera) GetControl(ctl zwo.Control) (int, error) {
	var (
		value C.long
		auto  C.ASI_BOOL
	)
	errCode := int(C.ASIGetControlValue(c.id, C.ASI_CONTROL_TYPE(ctl), &value, &auto))
	return int(value), enrich(Error(errCode), "ASIGetControlValue")
}

// SetROI programs the readout geometry.  The SDK takes binned dimensions
// and a separate unbinned start position.
func (c *Camera) SetROI(roi zwo.ROI) error {
	errCode := int(C.ASISetROIFormat(c.id,
		C.int(roi.Width), C.int(roi.Height), C.int(roi.Bin), C.ASI_IMG_TYPE(roi.Type)))
	if err := enrich(Error(errCode), "ASISetROIFormat"); err != nil {
		return err
	}
	errCode = int(C.ASISetStartPos(c.id, C.int(roi.Left), C.int(roi.Top)))
	return enrich(Error(errCode), "ASISetStartPos")
}

// GetROI reads back the readout geometry the device will actually use
func (c *Camera) GetROI() (zwo.ROI, error) {
	var (
		roi                  zwo.ROI
		w, h, bin, left, top C.int
		typ                  C.ASI_IMG_TYPE
	)
	errCode := int(C.ASIGetROIFormat(c.id, &w, &h, &bin, &typ))
	if err := enrich(Error(errCode), "ASIGetROIFormat"); err != nil {
		return roi, err
	}
	errCode = int(C.ASIGetStartPos(c.id, &left, &top))
	if err := enrich(Error(errCode), "ASIGetStartPos"); err != nil {
		return roi, err
	}
	roi = zwo.ROI{
		Left:   int(left),
		Top:    int(top),
		Width:  int(w),
		Height: int(h),
		Bin:    int(bin),
		Type:   zwo.ImgType(typ),
	}
	return roi, nil
}

// StartExposure begins a snapshot exposure.  dark keeps the mechanical
// shutter closed on cameras that have one.
func (c *Camera) StartExposure(dark bool) error {
	d := C.ASI_BOOL(C.ASI_FALSE)
	if dark {
		d = C.ASI_TRUE
	}
	return enrich(Error(int(C.ASIStartExposure(c.id, d))), "ASIStartExposure")
}

// StopExposure cancels an in-progress exposure
func (c *Camera) StopExposure() error {
	return enrich(Error(int(C.ASIStopExposure(c.id))), "ASIStopExposure")
}

// ExposureStatus queries the exposure state machine
func (c *Camera) ExposureStatus() (zwo.ExposureStatus, error) {
	var st C.ASI_EXPOSURE_STATUS
	errCode := int(C.ASIGetExpStatus(c.id, &st))
	return zwo.ExposureStatus(st), enrich(Error(errCode), "ASIGetExpStatus")
}

// ExposureData downloads the frame from the last successful exposure into
// buf, which must be exactly the size of the readout
func (c *Camera) ExposureData(buf []byte) error {
	if len(buf) == 0 {
		return fmt.Errorf("ASIGetDataAfterExp: zero length buffer")
	}
	ptr := (*C.uchar)(unsafe.Pointer(&buf[0]))
	errCode := int(C.ASIGetDataAfterExp(c.id, ptr, C.long(len(buf))))
	return enrich(Error(errCode), "ASIGetDataAfterExp")
}

// DisableDarkSubtract turns off in-camera dark frame subtraction
func (c *Camera) DisableDarkSubtract() error {
	return enrich(Error(int(C.ASIDisableDarkSubtract(c.id))), "ASIDisableDarkSubtract")
}

// StopVideoCapture leaves video mode so snapshot exposures work
func (c *Camera) StopVideoCapture() error {
	return enrich(Error(int(C.ASIStopVideoCapture(c.id))), "ASIStopVideoCapture")
}

// Close releases the camera
func (c *Camera) Close() error {
	return enrich(Error(int(C.ASICloseCamera(c.id))), "ASICloseCamera")
}
