// Package pid implements a discrete-time PID controller with the
// output-conditioning stages a physical actuator imposes:
//
//   - derivative on measurement (no derivative kick on setpoint steps)
//   - anti-windup (integral accumulation is discarded while saturated)
//   - output clamping to [OutMin, OutMax]
//   - per-step rate limiting of the output change
//   - sample-time gating (calls faster than the sample time return the
//     previously computed output)
//
// Time is supplied through a [Clock] so the controller can be driven by a
// simulation loop or tested with a fake clock.
package pid
