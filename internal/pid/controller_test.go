package pid

import (
	"math"
	"testing"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	now float64
}

func (f *fakeClock) Now() float64       { return f.now }
func (f *fakeClock) Advance(dt float64) { f.now += dt }

func newTestController(t *testing.T, sampleTime, kp, ki, kd, outMin, outMax float64) (*Controller, *fakeClock) {
	t.Helper()
	clk := &fakeClock{}
	c, err := New(sampleTime, kp, ki, kd, outMin, outMax, clk.Now)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c, clk
}

func TestNewValidation(t *testing.T) {
	clk := &fakeClock{}

	tests := []struct {
		name       string
		sampleTime float64
		outMin     float64
		outMax     float64
		clock      Clock
		wantErr    bool
	}{
		{"valid", 1.0, 0, 100, clk.Now, false},
		{"equal bounds", 1.0, 5, 5, clk.Now, false},
		{"zero sampletime", 0, 0, 100, clk.Now, true},
		{"negative sampletime", -1, 0, 100, clk.Now, true},
		{"inverted range", 1.0, 10, -10, clk.Now, true},
		{"nil clock", 1.0, 0, 100, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.sampleTime, 1, 0, 0, tt.outMin, tt.outMax, tt.clock)
			if (err != nil) != tt.wantErr {
				t.Errorf("New: err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestCalcProportional(t *testing.T) {
	c, clk := newTestController(t, 1.0, 2.0, 0, 0, -100, 100)

	clk.Advance(1.0)
	out := c.Calc(3.0, 5.0, 1e6)

	// error = 2, kp = 2, no other terms
	if math.Abs(out-4.0) > 1e-12 {
		t.Errorf("expected output 4.0, got %f", out)
	}
}

func TestSampleTimeGating(t *testing.T) {
	c, clk := newTestController(t, 5.0, 1.0, 0, 0, -100, 100)

	clk.Advance(5.0)
	first := c.Calc(0.0, 10.0, 1e6)

	// Half a sample time later the controller must not recompute, even
	// though the error changed.
	clk.Advance(2.5)
	held := c.Calc(5.0, 10.0, 1e6)
	if held != first {
		t.Errorf("expected held output %f, got %f", first, held)
	}

	clk.Advance(2.5)
	recomputed := c.Calc(5.0, 10.0, 1e6)
	if recomputed == first {
		t.Error("expected recompute after a full sample time")
	}
}

func TestOutputClamped(t *testing.T) {
	tests := []struct {
		name       string
		kp, ki, kd float64
		input      float64
		setpoint   float64
	}{
		{"huge positive error", 1000, 0, 0, 0, 1e6},
		{"huge negative error", 1000, 0, 0, 1e6, 0},
		{"aggressive integral", 0, 1000, 0, 0, 100},
		{"aggressive derivative", 0, 0, 1000, -1e6, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, clk := newTestController(t, 1.0, tt.kp, tt.ki, tt.kd, -50, 50)
			for i := 0; i < 10; i++ {
				clk.Advance(1.0)
				out := c.Calc(tt.input, tt.setpoint, 1e6)
				if out < -50 || out > 50 {
					t.Fatalf("tick %d: output %f outside [-50, 50]", i, out)
				}
			}
		})
	}
}

func TestZeroGainsHoldZero(t *testing.T) {
	c, clk := newTestController(t, 1.0, 0, 0, 0, -100, 100)

	for i := 0; i < 5; i++ {
		clk.Advance(1.0)
		if out := c.Calc(float64(i)*17.0, 42.0, 1e6); out != 0 {
			t.Fatalf("tick %d: zero-gain controller output %f, want 0", i, out)
		}
	}
}

func TestRateLimit(t *testing.T) {
	c, clk := newTestController(t, 1.0, 100.0, 0, 0, -1000, 1000)

	maxDelta := 3.0
	prev := 0.0
	for i := 0; i < 20; i++ {
		clk.Advance(1.0)
		out := c.Calc(0.0, 10.0, maxDelta)
		if math.Abs(out-prev) > maxDelta+1e-12 {
			t.Fatalf("tick %d: output moved by %f, limit %f", i, out-prev, maxDelta)
		}
		prev = out
	}

	// Raw PID wants 1000; after 20 ticks at +3/tick the output should have
	// climbed to exactly 60.
	if math.Abs(prev-60.0) > 1e-9 {
		t.Errorf("expected ramped output 60.0, got %f", prev)
	}
}

func TestAntiWindup(t *testing.T) {
	// Large persistent error with the output saturated: the integral must
	// not accumulate, so when the error flips sign the output must respond
	// immediately instead of unwinding a huge integral first.
	c, clk := newTestController(t, 1.0, 1.0, 1.0, 0, -10, 10)

	for i := 0; i < 100; i++ {
		clk.Advance(1.0)
		out := c.Calc(0.0, 100.0, 1e6)
		if out != 10 {
			t.Fatalf("tick %d: expected saturated output 10, got %f", i, out)
		}
	}

	clk.Advance(1.0)
	out := c.Calc(100.0, 0.0, 1e6)
	if out != -10 {
		t.Errorf("expected immediate swing to -10 after error reversal, got %f", out)
	}
}

func TestDerivativeOnMeasurement(t *testing.T) {
	// A setpoint step with a steady input must produce no derivative kick:
	// two controllers, one with kd = 0, must agree when only the setpoint
	// changed between calls.
	withKd, clkA := newTestController(t, 1.0, 2.0, 0, 50.0, -1e6, 1e6)
	without, clkB := newTestController(t, 1.0, 2.0, 0, 0, -1e6, 1e6)

	clkA.Advance(1.0)
	clkB.Advance(1.0)
	withKd.Calc(5.0, 10.0, 1e6)
	without.Calc(5.0, 10.0, 1e6)

	clkA.Advance(1.0)
	clkB.Advance(1.0)
	a := withKd.Calc(5.0, 30.0, 1e6)
	b := without.Calc(5.0, 30.0, 1e6)

	if math.Abs(a-b) > 1e-12 {
		t.Errorf("setpoint step produced derivative kick: %f vs %f", a, b)
	}
}

func TestDerivativeOpposesInputChange(t *testing.T) {
	c, clk := newTestController(t, 1.0, 0, 0, 4.0, -1e6, 1e6)

	clk.Advance(1.0)
	c.Calc(0.0, 0.0, 1e6)

	clk.Advance(1.0)
	out := c.Calc(2.0, 0.0, 1e6)

	// input rose by 2 over one sample time; d-term = -kd * 2
	if math.Abs(out-(-8.0)) > 1e-12 {
		t.Errorf("expected derivative output -8.0, got %f", out)
	}
}
