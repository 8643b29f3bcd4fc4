// Package config loads, saves, and defaults simulator run configurations.
// A Config is the external description of a run — plant name, gains,
// timing, actuator limits, and the per-plant value mappings — and converts
// into the core's [sim.Config].
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eschneider1992/sim-control-projects/internal/sim"
)

type PIDConfig struct {
	Kp float64 `yaml:"kp"`
	Ki float64 `yaml:"ki"`
	Kd float64 `yaml:"kd"`
}

type Config struct {
	Plant          string    `yaml:"plant"`
	PID            PIDConfig `yaml:"pid"`
	Setpoint       float64   `yaml:"setpoint"`
	SuppressOutput bool      `yaml:"suppress_output"`

	// Interval is in minutes; Delay and SampleTime in seconds.
	Interval   float64 `yaml:"interval"`
	Delay      float64 `yaml:"delay"`
	SampleTime float64 `yaml:"sampletime"`

	OutMin            float64 `yaml:"out_min"`
	OutMax            float64 `yaml:"out_max"`
	OutputRateLimit   float64 `yaml:"output_rate_limit"`
	SensorNoiseStdDev float64 `yaml:"sensor_noise_std_dev"`

	Seed int64 `yaml:"seed"`

	InitialValues  map[string]float64 `yaml:"initial_values"`
	ConstantValues map[string]float64 `yaml:"constant_values"`
}

// DefaultConfig is the kettle tuning the simulator ships with.
func DefaultConfig() *Config {
	return &Config{
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
	}
}

// Load reads a YAML config file over the defaults, so partial files only
// override what they mention.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	// Unmarshaling merges into pre-populated maps, which would leak the
	// default kettle keys into any other plant's value mappings. A file
	// that names a mapping replaces it wholesale; a file that omits it
	// keeps the default.
	cfg.InitialValues = nil
	cfg.ConstantValues = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if cfg.InitialValues == nil {
		cfg.InitialValues = DefaultConfig().InitialValues
	}
	if cfg.ConstantValues == nil {
		cfg.ConstantValues = DefaultConfig().ConstantValues
	}
	return cfg, nil
}

// Save writes the config as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SimConfig converts to the core simulator configuration. Validation is
// the simulator's job; this is a pure field mapping.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		PlantName:         c.Plant,
		Kp:                c.PID.Kp,
		Ki:                c.PID.Ki,
		Kd:                c.PID.Kd,
		Setpoint:          c.Setpoint,
		Interval:          c.Interval,
		Delay:             c.Delay,
		SampleTime:        c.SampleTime,
		OutMin:            c.OutMin,
		OutMax:            c.OutMax,
		OutputRateLimit:   c.OutputRateLimit,
		SensorNoiseStdDev: c.SensorNoiseStdDev,
		SuppressOutput:    c.SuppressOutput,
		Seed:              c.Seed,
	}
}
