package sim

import (
	"errors"
	"fmt"
)

// Domain errors for simulation setup and execution.
var (
	ErrBadSampleTime = errors.New("sim: sample time must be positive")
	ErrBadInterval   = errors.New("sim: interval must be positive")
	ErrBadDelay      = errors.New("sim: delay must not be negative")
	ErrBadNoise      = errors.New("sim: sensor noise std dev must not be negative")
	ErrBadRateLimit  = errors.New("sim: output rate limit must be positive")
	ErrAlreadyRun    = errors.New("sim: loop already ran; runs are single-pass")
)

// Unlimited is the default output rate limit; multiplied by any realistic
// sample time it never constrains the controller.
const Unlimited = 1e6

// Config holds everything a single run needs besides the plant itself. It
// is immutable for the run's lifetime.
type Config struct {
	PlantName string

	Kp float64
	Ki float64
	Kd float64

	Setpoint float64
	// Interval is the simulated horizon in minutes; the loop itself runs
	// in seconds.
	Interval   float64
	Delay      float64 // seconds
	SampleTime float64 // seconds

	OutMin float64
	OutMax float64
	// OutputRateLimit bounds the output change per second; the per-tick
	// allowance is OutputRateLimit * SampleTime.
	OutputRateLimit float64

	SensorNoiseStdDev float64
	// SuppressOutput forces the command to zero every tick, exposing the
	// plant's open-loop behavior.
	SuppressOutput bool

	Seed int64
}

// DefaultConfig mirrors the kettle tuning the simulator ships with.
func DefaultConfig() Config {
	return Config{
		PlantName:       "Kettle",
		Kp:              104,
		Ki:              0.8,
		Kd:              205,
		Setpoint:        45.0,
		Interval:        20.0,
		Delay:           15.0,
		SampleTime:      5.0,
		OutMin:          0.0,
		OutMax:          100.0,
		OutputRateLimit: Unlimited,
	}
}

// Validate fails fast on configurations no run should be attempted with.
func (c Config) Validate() error {
	if c.SampleTime <= 0 {
		return fmt.Errorf("%w: got %f", ErrBadSampleTime, c.SampleTime)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: got %f", ErrBadInterval, c.Interval)
	}
	if c.Delay < 0 {
		return fmt.Errorf("%w: got %f", ErrBadDelay, c.Delay)
	}
	if c.SensorNoiseStdDev < 0 {
		return fmt.Errorf("%w: got %f", ErrBadNoise, c.SensorNoiseStdDev)
	}
	if c.OutputRateLimit <= 0 {
		return fmt.Errorf("%w: got %f", ErrBadRateLimit, c.OutputRateLimit)
	}
	if c.OutMin > c.OutMax {
		return fmt.Errorf("sim: out_min %f exceeds out_max %f", c.OutMin, c.OutMax)
	}
	return nil
}

// Result is the record of one completed run: four parallel series of equal
// length plus the context a report needs. Handed read-only to reporting.
type Result struct {
	Title    string
	Setpoint float64

	Timestamps   []float64
	SensorStates []float64
	Outputs      []float64
	PlantStates  []float64
}
