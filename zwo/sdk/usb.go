package sdk

import (
	"fmt"

	"github.com/google/gousb"
)

// zwoVID is the USB vendor ID assigned to ZWO
const zwoVID = 0x03c3

// Preflight checks the USB bus for ZWO hardware before the SDK is asked to
// enumerate.  It returns the number of ZWO devices present, and an error if
// the bus cannot be walked.  A zero count with a nil error means the camera
// is unplugged or unpowered, which the SDK reports much less clearly.
func Preflight() (int, error) {
	ctx := gousb.NewContext()
	defer ctx.Close()
	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Vendor == gousb.ID(zwoVID)
	})
	for _, d := range devs {
		d.Close()
	}
	if err != nil {
		return len(devs), fmt.Errorf("walking USB bus: %w", err)
	}
	return len(devs), nil
}
