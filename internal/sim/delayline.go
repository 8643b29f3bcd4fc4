package sim

import "math"

// DelayLine models transport/measurement lag as a fixed-capacity FIFO of
// sensor observations. The value at the front is the one a sensor "sees"
// now; each Push appends the newest observation and discards the oldest.
//
// Capacity is max(1, round(delay/sampletime)), so a zero delay still lags
// by exactly one sample tick: a discretized sensor never reads the instant
// plant state, only the previous full observation.
type DelayLine struct {
	buf  []float64
	head int
}

// NewDelayLine builds a delay line for the given delay and sample time,
// pre-filled to capacity with the plant's initial observable state so the
// first sensor reading is well defined.
func NewDelayLine(delaySeconds, sampleSeconds, initial float64) *DelayLine {
	capacity := int(math.Round(delaySeconds / sampleSeconds))
	if capacity < 1 {
		capacity = 1
	}
	buf := make([]float64, capacity)
	for i := range buf {
		buf[i] = initial
	}
	return &DelayLine{buf: buf}
}

// Push appends an observation, evicting the oldest. Capacity never grows.
func (d *DelayLine) Push(v float64) {
	d.buf[d.head] = v
	d.head = (d.head + 1) % len(d.buf)
}

// Oldest returns the observation currently visible to the sensor without
// removing it.
func (d *DelayLine) Oldest() float64 {
	return d.buf[d.head]
}

// Capacity returns the fixed buffer length.
func (d *DelayLine) Capacity() int {
	return len(d.buf)
}
