package pid

import (
	"errors"
	"fmt"
)

// Domain errors for controller construction.
var (
	ErrBadSampleTime  = errors.New("pid: sample time must be positive")
	ErrBadOutputRange = errors.New("pid: out_min must not exceed out_max")
)

// Clock returns the current time in seconds. The controller never reads the
// wall clock itself; whoever owns the controller decides what "now" means.
type Clock func() float64

// Controller is a fixed-rate digital PID controller. It recomputes its
// output at most once per sample time; faster callers get the previous
// output back unchanged.
type Controller struct {
	kp float64
	ki float64 // pre-scaled: ki * sampletime
	kd float64 // pre-scaled: kd / sampletime

	sampleTime float64
	outMin     float64
	outMax     float64
	clock      Clock

	integral   float64
	lastInput  float64
	lastOutput float64
	lastCalc   float64
}

// New constructs a controller. The integral and derivative gains are
// pre-scaled by the sample time so Calc works on raw errors and input
// differences.
func New(sampleTime, kp, ki, kd, outMin, outMax float64, clock Clock) (*Controller, error) {
	if sampleTime <= 0 {
		return nil, fmt.Errorf("%w: got %f", ErrBadSampleTime, sampleTime)
	}
	if outMin > outMax {
		return nil, fmt.Errorf("%w: [%f, %f]", ErrBadOutputRange, outMin, outMax)
	}
	if clock == nil {
		return nil, errors.New("pid: clock must not be nil")
	}
	return &Controller{
		kp:         kp,
		ki:         ki * sampleTime,
		kd:         kd / sampleTime,
		sampleTime: sampleTime,
		outMin:     outMin,
		outMax:     outMax,
		clock:      clock,
	}, nil
}

// Calc computes the next actuator command for the given sensed input and
// setpoint. maxAllowableChange bounds how far the output may move from the
// previous tick's output (actuator slew limit over one sample time).
//
// If called again before a full sample time has elapsed on the clock, the
// previously computed output is returned and no state is mutated.
func (c *Controller) Calc(input, setpoint, maxAllowableChange float64) float64 {
	now := c.clock()
	if now-c.lastCalc < c.sampleTime {
		return c.lastOutput
	}

	err := setpoint - input
	inputDiff := input - c.lastInput

	// Tentatively accumulate the integral, then roll the step back if the
	// raw output would saturate. The integral cannot wind up while the
	// actuator is already pinned at a limit.
	integral := c.integral + c.ki*err
	out := c.kp*err + integral - c.kd*inputDiff
	if out > c.outMax || out < c.outMin {
		integral = c.integral
		out = c.kp*err + integral - c.kd*inputDiff
	}
	c.integral = integral

	if out > c.outMax {
		out = c.outMax
	} else if out < c.outMin {
		out = c.outMin
	}

	// Rate limiting happens after the range clamp so the final command
	// respects both the actuator range and its slew limit.
	if out > c.lastOutput+maxAllowableChange {
		out = c.lastOutput + maxAllowableChange
	} else if out < c.lastOutput-maxAllowableChange {
		out = c.lastOutput - maxAllowableChange
	}

	c.lastInput = input
	c.lastOutput = out
	c.lastCalc = now
	return out
}

// LastOutput returns the most recently computed command without touching
// controller state.
func (c *Controller) LastOutput() float64 {
	return c.lastOutput
}
