package config

import (
	"sort"

	"github.com/eschneider1992/sim-control-projects/internal/sim"
)

// Presets are the tunings the simulator is normally exercised with: the
// slow thermal kettle loop and two fast pendulum-balancing loops, one with
// sensor noise and a slew-limited actuator.
var Presets = map[string]*Config{
	"kettle": {
		Plant:           "Kettle",
		PID:             PIDConfig{Kp: 104, Ki: 0.8, Kd: 205},
		Setpoint:        45.0,
		Interval:        20.0,
		Delay:           15.0,
		SampleTime:      5.0,
		OutMin:          0.0,
		OutMax:          100.0,
		OutputRateLimit: sim.Unlimited,
		InitialValues:   map[string]float64{"kettle_temp": 40.0},
		ConstantValues: map[string]float64{
			"ambient_temp":     20.0,
			"volume":           70.0,
			"diameter":         50.0,
			"heater_power":     6.0,
			"heat_loss_factor": 1.0,
		},
	},
	"pendulum": {
		Plant:           "InvertedPendulum",
		PID:             PIDConfig{Kp: 20, Ki: 0.8, Kd: 5},
		Setpoint:        0.0,
		Interval:        0.2,
		Delay:           0.0,
		SampleTime:      0.01,
		OutMin:          -10.0,
		OutMax:          10.0,
		OutputRateLimit: sim.Unlimited,
		InitialValues:   map[string]float64{"theta0": 0.3, "x0": 5},
		ConstantValues:  map[string]float64{"length": 0.5},
	},
	"pendulum-noisy": {
		Plant:             "InvertedPendulum",
		PID:               PIDConfig{Kp: 20, Ki: 0.8, Kd: 5},
		Setpoint:          0.0,
		Interval:          0.2,
		Delay:             0.01,
		SampleTime:        0.01,
		OutMin:            -5.0,
		OutMax:            5.0,
		OutputRateLimit:   30.0,
		SensorNoiseStdDev: 0.005,
		InitialValues:     map[string]float64{"theta_dot0": 0, "x0": 0},
		ConstantValues:    map[string]float64{"length": 1},
	},
}

// GetPreset returns the named preset, or nil when unknown.
func GetPreset(name string) *Config {
	return Presets[name]
}

// ListPresets returns the available preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
