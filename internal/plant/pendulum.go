package plant

import (
	"fmt"
	"math"
	"strings"
)

// Substep ceiling for the Euler integration inside one Update call.
const pendulumMaxStep = 0.001

type pendulumInitial struct {
	Theta0    float64 `mapstructure:"theta0"`
	ThetaDot0 float64 `mapstructure:"theta_dot0"`
	X0        float64 `mapstructure:"x0"`
	XDot0     float64 `mapstructure:"x_dot0"`
}

type pendulumConstants struct {
	Length  float64 `mapstructure:"length"`
	Mass    float64 `mapstructure:"mass"`
	Gravity float64 `mapstructure:"gravity"`
}

// InvertedPendulum models a pendulum balanced above a base that the
// actuator accelerates horizontally. The angle theta is measured from
// upright, so theta = 0 is the unstable equilibrium the controller tries
// to hold.
//
// Constants: length (m), mass (kg), gravity (m/s^2). Initial values:
// theta0 (rad), theta_dot0 (rad/s), x0 (m), x_dot0 (m/s). The command is
// the base acceleration in m/s^2.
type InvertedPendulum struct {
	theta    float64
	thetaDot float64
	x        float64
	xDot     float64

	length  float64
	mass    float64
	gravity float64

	elapsed float64
	history History
	energy  []float64
}

// NewInvertedPendulum builds a pendulum from initial values and physical
// constants. Missing keys default to a 1 m, 1 kg pendulum at rest upright.
func NewInvertedPendulum(initial, constants map[string]float64) (*InvertedPendulum, error) {
	init := pendulumInitial{}
	if err := decodeParams(initial, &init); err != nil {
		return nil, fmt.Errorf("InvertedPendulum initial values: %w", err)
	}
	consts := pendulumConstants{
		Length:  1.0,
		Mass:    1.0,
		Gravity: 9.81,
	}
	if err := decodeParams(constants, &consts); err != nil {
		return nil, fmt.Errorf("InvertedPendulum constant values: %w", err)
	}
	if consts.Length <= 0 || consts.Mass <= 0 {
		return nil, fmt.Errorf("plant: InvertedPendulum length and mass must be positive")
	}

	p := &InvertedPendulum{
		theta:    init.Theta0,
		thetaDot: init.ThetaDot0,
		x:        init.X0,
		xDot:     init.XDot0,
		length:   consts.Length,
		mass:     consts.Mass,
		gravity:  consts.Gravity,
		history: History{
			Labels: []string{"theta", "theta_dot", "x", "x_dot"},
			Series: make([][]float64, 4),
		},
	}
	p.record()
	return p, nil
}

// Update integrates the dynamics for duration seconds with the base
// acceleration held constant. Euler steps no larger than 1 ms keep the
// fast angular dynamics stable at control-loop sample times.
func (p *InvertedPendulum) Update(command, duration float64) {
	n := int(math.Ceil(duration / pendulumMaxStep))
	if n < 1 {
		n = 1
	}
	dt := duration / float64(n)

	for i := 0; i < n; i++ {
		// Accelerating the base to the right pushes the rod to the left:
		// theta_ddot = (g*sin(theta) - u*cos(theta)) / L
		thetaDDot := (p.gravity*math.Sin(p.theta) - command*math.Cos(p.theta)) / p.length

		p.theta += p.thetaDot * dt
		p.thetaDot += thetaDDot * dt
		p.x += p.xDot * dt
		p.xDot += command * dt
	}

	p.elapsed += duration
	p.record()
}

// SensableState returns the rod angle in radians.
func (p *InvertedPendulum) SensableState() float64 {
	return p.theta
}

// StateHistory returns the per-Update internal state samples.
func (p *InvertedPendulum) StateHistory() History {
	return p.history
}

// EnergyHistory returns the rod's mechanical energy about the pivot for
// each recorded sample.
func (p *InvertedPendulum) EnergyHistory() []float64 {
	return p.energy
}

func (p *InvertedPendulum) record() {
	p.history.T = append(p.history.T, p.elapsed)
	p.history.Series[0] = append(p.history.Series[0], p.theta)
	p.history.Series[1] = append(p.history.Series[1], p.thetaDot)
	p.history.Series[2] = append(p.history.Series[2], p.x)
	p.history.Series[3] = append(p.history.Series[3], p.xDot)

	v := p.length * p.thetaDot
	ke := 0.5 * p.mass * v * v
	pe := p.mass * p.gravity * p.length * math.Cos(p.theta)
	p.energy = append(p.energy, ke+pe)
}

// Frames renders one terminal frame per recorded sample: the base position
// along the bottom row and the rod drawn at its current angle.
func (p *InvertedPendulum) Frames(width, height int) []string {
	if width < 8 || height < 4 {
		return nil
	}

	xs := p.history.Series[2]
	xMin, xMax := xs[0], xs[0]
	for _, v := range xs {
		xMin = math.Min(xMin, v)
		xMax = math.Max(xMax, v)
	}
	xRange := xMax - xMin
	if xRange == 0 {
		xRange = 1
	}

	rodLen := float64(height - 2)
	frames := make([]string, len(xs))

	for i := range xs {
		grid := make([][]rune, height)
		for r := range grid {
			grid[r] = make([]rune, width)
			for c := range grid[r] {
				grid[r][c] = ' '
			}
		}

		baseCol := 2 + int(float64(width-5)*(xs[i]-xMin)/xRange)
		baseRow := height - 1
		grid[baseRow][baseCol] = '█'

		theta := p.history.Series[0][i]
		for s := 1; s <= int(rodLen); s++ {
			c := baseCol + int(math.Round(math.Sin(theta)*float64(s)))
			r := baseRow - int(math.Round(math.Cos(theta)*float64(s)))
			if r >= 0 && r < height && c >= 0 && c < width {
				grid[r][c] = '·'
			}
		}
		tipC := baseCol + int(math.Round(math.Sin(theta)*rodLen))
		tipR := baseRow - int(math.Round(math.Cos(theta)*rodLen))
		if tipR >= 0 && tipR < height && tipC >= 0 && tipC < width {
			grid[tipR][tipC] = 'o'
		}

		rows := make([]string, height)
		for r := range grid {
			rows[r] = string(grid[r])
		}
		frames[i] = strings.Join(rows, "\n")
	}

	return frames
}
