// Package sim implements the discrete-time closed-loop simulator: a
// fixed-step [Loop] that reads a delayed (and optionally noisy) sensor
// value through a [DelayLine], asks the PID controller for a rate-limited
// actuator command, applies it to the plant, and records four parallel
// time series for reporting.
//
// A run is a synchronous, single-threaded batch computation: given the
// same [Config] and seed it is fully deterministic, and with noise
// disabled it never touches the random number generator at all.
package sim
