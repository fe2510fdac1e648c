package zwo

import (
	"encoding/binary"
	"errors"
	"time"
)

// Sim is an in-memory Device for testing and bench use without hardware.
// Exposures complete after the programmed exposure time elapses, readout
// returns a flat field at Fill (or ColorPixel for RGB frames), and the
// cooler converges instantly on its setpoint.
type Sim struct {
	info     Info
	controls map[Control]int
	roi      ROI
	started  time.Time
	exposing bool
	stopped  bool

	// Fill is the pixel value returned in mono readouts
	Fill uint16
	// ColorPixel is the interleaved BGR triple returned in RGB readouts
	ColorPixel [3]byte
	// FailStatus, when set, makes exposures end in ExposureFailed
	FailStatus bool
	// BadEcho, when non-nil, is returned from GetROI in place of the
	// programmed geometry
	BadEcho *ROI
	// Stopped counts calls to StopExposure
	Stopped int
	// StopErr, when non-nil, is returned from StopExposure
	StopErr error
	// Writes records every control written through SetControl, in order
	Writes []Control
}

// NewSim returns a simulated camera resembling a small cooled ASI model
func NewSim() *Sim {
	return &Sim{
		info: Info{
			Name:          "ZWO ASI Sim",
			MaxWidth:      1280,
			MaxHeight:     960,
			PixelSizeUM:   3.75,
			ElecPerADU:    0.25,
			HasCooler:     true,
			IsColor:       false,
			BitDepth:      12,
			SupportedBins: []int{1, 2},
		},
		controls: map[Control]int{},
		roi:      ROI{Width: 1280, Height: 960, Bin: 1, Type: ImgRaw8},
		Fill:     100,
	}
}

func (s *Sim) Info() (Info, error) { return s.info, nil }

// SetInfo replaces the camera properties, for tests that need a colorless
// or coolerless device
func (s *Sim) SetInfo(i Info) { s.info = i }

func (s *Sim) SetControl(c Control, v int) error {
	s.Writes = append(s.Writes, c)
	s.controls[c] = v
	if c == ControlCoolerOn || c == ControlTargetTemp {
		s.updateThermal()
	}
	return nil
}

func (s *Sim) GetControl(c Control) (int, error) {
	v, ok := s.controls[c]
	if !ok {
		return 0, errors.New("sim: control never written")
	}
	return v, nil
}

func (s *Sim) updateThermal() {
	if s.controls[ControlCoolerOn] != 0 {
		s.controls[ControlTemperature] = s.controls[ControlTargetTemp] * 10
		s.controls[ControlCoolerPower] = 50
	} else {
		s.controls[ControlTemperature] = 250
		s.controls[ControlCoolerPower] = 0
	}
}

func (s *Sim) SetROI(roi ROI) error {
	s.roi = roi
	return nil
}

func (s *Sim) GetROI() (ROI, error) {
	if s.BadEcho != nil {
		return *s.BadEcho, nil
	}
	return s.roi, nil
}

func (s *Sim) StartExposure(dark bool) error {
	s.started = time.Now()
	s.exposing = true
	s.stopped = false
	return nil
}

func (s *Sim) StopExposure() error {
	s.Stopped++
	s.stopped = true
	s.exposing = false
	return s.StopErr
}

func (s *Sim) ExposureStatus() (ExposureStatus, error) {
	if s.stopped {
		return ExposureIdle, nil
	}
	if !s.exposing {
		return ExposureIdle, nil
	}
	texp := time.Duration(s.controls[ControlExposure]) * time.Microsecond
	if time.Since(s.started) < texp {
		return ExposureWorking, nil
	}
	s.exposing = false
	if s.FailStatus {
		return ExposureFailed, nil
	}
	return ExposureSuccess, nil
}

func (s *Sim) ExposureData(buf []byte) error {
	npx := s.roi.Width * s.roi.Height
	want := npx * s.roi.Type.BytesPerPixel()
	if len(buf) != want {
		return errors.New("sim: buffer size does not match readout geometry")
	}
	switch s.roi.Type {
	case ImgRaw8, ImgY8:
		for i := range buf {
			buf[i] = byte(s.Fill)
		}
	case ImgRaw16:
		for i := 0; i < npx; i++ {
			binary.LittleEndian.PutUint16(buf[2*i:], s.Fill)
		}
	case ImgRGB24:
		for i := 0; i < npx; i++ {
			buf[3*i] = s.ColorPixel[0]
			buf[3*i+1] = s.ColorPixel[1]
			buf[3*i+2] = s.ColorPixel[2]
		}
	}
	return nil
}

func (s *Sim) DisableDarkSubtract() error { return nil }
func (s *Sim) StopVideoCapture() error    { return nil }
func (s *Sim) Close() error               { return nil }

var _ Device = (*Sim)(nil)
