package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/eschneider1992/sim-control-projects/internal/pid"
	"github.com/eschneider1992/sim-control-projects/internal/plant"
)

type runState int

const (
	notStarted runState = iota
	running
	complete
)

// Loop drives one plant through one closed-loop run: a fixed-step,
// single-threaded pass over the configured horizon. A Loop is built, run
// once, and discarded.
type Loop struct {
	cfg        Config
	plant      plant.Plant
	controller *pid.Controller
	delay      *DelayLine
	rng        *rand.Rand

	timestamp float64
	state     runState
}

// New wires a loop for the given plant: the PID controller reads the
// loop's simulated time through its clock, and the delay line is pre-filled
// with the plant's initial observable state.
func New(cfg Config, p plant.Plant) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := &Loop{
		cfg:   cfg,
		plant: p,
		delay: NewDelayLine(cfg.Delay, cfg.SampleTime, p.SensableState()),
	}

	ctrl, err := pid.New(cfg.SampleTime, cfg.Kp, cfg.Ki, cfg.Kd, cfg.OutMin, cfg.OutMax, l.Now)
	if err != nil {
		return nil, err
	}
	l.controller = ctrl

	// The RNG exists only when noise is enabled, so noise-free runs never
	// consume random numbers and stay bit-reproducible.
	if cfg.SensorNoiseStdDev > 0 {
		l.rng = rand.New(rand.NewSource(cfg.Seed))
	}

	return l, nil
}

// Now returns the loop's current simulated time in seconds. It is the
// controller's time source.
func (l *Loop) Now() float64 {
	return l.timestamp
}

// Run executes the loop to completion and returns the recorded time
// series. Running a loop twice is an error; runs are single-pass.
func (l *Loop) Run() (*Result, error) {
	if l.state != notStarted {
		return nil, ErrAlreadyRun
	}
	l.state = running

	// Interval is minutes, the loop runs in seconds.
	horizon := l.cfg.Interval * 60.0
	steps := int(math.Round(horizon / l.cfg.SampleTime))

	result := &Result{
		Title: fmt.Sprintf("%s PID simulation, %.1fs delay, %.1fs sampletime",
			l.cfg.PlantName, l.cfg.Delay, l.cfg.SampleTime),
		Setpoint:     l.cfg.Setpoint,
		Timestamps:   make([]float64, 0, steps),
		SensorStates: make([]float64, 0, steps),
		Outputs:      make([]float64, 0, steps),
		PlantStates:  make([]float64, 0, steps),
	}

	allowableChange := l.cfg.OutputRateLimit * l.cfg.SampleTime

	for l.timestamp < horizon {
		l.timestamp += l.cfg.SampleTime

		noise := 0.0
		if l.rng != nil {
			noise = l.rng.NormFloat64() * l.cfg.SensorNoiseStdDev
		}
		sensed := l.delay.Oldest() + noise

		output := 0.0
		if !l.cfg.SuppressOutput {
			output = l.controller.Calc(sensed, l.cfg.Setpoint, allowableChange)
		}

		l.plant.Update(output, l.cfg.SampleTime)
		l.delay.Push(l.plant.SensableState())

		result.Timestamps = append(result.Timestamps, l.timestamp)
		// The sensor series re-reads the front of the delay line after
		// this tick's observation has been queued.
		result.SensorStates = append(result.SensorStates, l.delay.Oldest())
		result.Outputs = append(result.Outputs, output)
		result.PlantStates = append(result.PlantStates, l.plant.SensableState())
	}

	l.state = complete
	return result, nil
}
