package zwo

import "fmt"

// Cooler is a Camera with a working thermoelectric cooler.  It satisfies
// camera.ThermalManager in addition to everything Camera does.
type Cooler struct {
	*Camera
}

// NewCooler wraps an initialized Camera, returning ErrNoCooler if the
// hardware has no TEC.
func NewCooler(c *Camera) (*Cooler, error) {
	if c.dev == nil {
		return nil, ErrNotInitialized
	}
	if !c.info.HasCooler {
		return nil, ErrNoCooler
	}
	return &Cooler{Camera: c}, nil
}

// Enable sets the cooling setpoint and turns the TEC on.  The setpoint is
// programmed first so the cooler never drives toward a stale target.
func (c *Cooler) Enable(setpoint float64) error {
	if err := c.SetTemperatureSetpoint(setpoint); err != nil {
		return err
	}
	return c.SetCooling(true)
}

// CoolingStatus is a point-in-time snapshot of the TEC
type CoolingStatus struct {
	// Enabled is true while the TEC is running
	Enabled bool `json:"enabled"`

	// Setpoint is the cooling target in Celsius
	Setpoint float64 `json:"setpoint"`

	// Power is the TEC drive level in percent
	Power float64 `json:"power"`
}

// Status reads the cooler state in one shot
func (c *Cooler) Status() (CoolingStatus, error) {
	var (
		st  CoolingStatus
		err error
	)
	if st.Enabled, err = c.GetCooling(); err != nil {
		return st, err
	}
	if st.Setpoint, err = c.GetTemperatureSetpoint(); err != nil {
		return st, err
	}
	st.Power, err = c.GetCoolerPower()
	return st, err
}

// GetCooling reports whether the TEC is running
func (c *Cooler) GetCooling() (bool, error) {
	v, err := c.dev.GetControl(ControlCoolerOn)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// SetCooling turns the TEC on or off
func (c *Cooler) SetCooling(on bool) error {
	v := 0
	if on {
		v = 1
	}
	return c.dev.SetControl(ControlCoolerOn, v)
}

// GetTemperatureSetpoint retrieves the cooling target in Celsius
func (c *Cooler) GetTemperatureSetpoint() (float64, error) {
	v, err := c.dev.GetControl(ControlTargetTemp)
	if err != nil {
		return 0, err
	}
	return float64(v), nil
}

// SetTemperatureSetpoint assigns the cooling target in Celsius
func (c *Cooler) SetTemperatureSetpoint(t float64) error {
	if err := c.dev.SetControl(ControlTargetTemp, int(t)); err != nil {
		return fmt.Errorf("programming cooling setpoint: %w", err)
	}
	return nil
}

// GetCoolerPower retrieves the TEC drive level as a percentage, 0~100
func (c *Cooler) GetCoolerPower() (float64, error) {
	v, err := c.dev.GetControl(ControlCoolerPower)
	if err != nil {
		return 0, err
	}
	return float64(v), nil
}

// Temperatures reads all thermal sensors on the camera
func (c *Cooler) Temperatures() (map[string]float64, error) {
	t, err := c.GetTemperature()
	if err != nil {
		return nil, err
	}
	return map[string]float64{"CCD": t}, nil
}
