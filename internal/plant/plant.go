// Package plant provides physical process models driven by the simulation
// loop.
//
// Each model implements the [Plant] interface, advancing its own internal
// state under an actuator command and exposing the single value a sensor
// could measure:
//
//   - [Kettle]: thermal mass heated against ambient losses
//   - [InvertedPendulum]: pendulum on a horizontally accelerated base
//
// Models are constructed by name through the [Registry] from two plain
// mappings: initial state values and physical constants. Some models also
// implement the optional reporting interfaces ([HistoryRecorder],
// [EnergyReporter], [Animator]); the loop itself never depends on these.
package plant

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// ErrUnknownPlant indicates a plant name with no registered factory.
var ErrUnknownPlant = errors.New("plant: unknown plant")

// Plant is the capability set the simulation loop needs from a physical
// process model. Update advances internal state by exactly duration
// seconds with the actuator command held constant over the whole interval.
// SensableState is a pure read and must not mutate the plant.
type Plant interface {
	Update(command, duration float64)
	SensableState() float64
}

// History is a set of named internal state series sampled once per Update,
// all sharing the T axis.
type History struct {
	T      []float64
	Labels []string
	Series [][]float64
}

// HistoryRecorder is an optional capability: plants that record their full
// internal state over time expose it for reporting.
type HistoryRecorder interface {
	StateHistory() History
}

// EnergyReporter is an optional capability: plants with a meaningful total
// energy expose it per Update for reporting.
type EnergyReporter interface {
	EnergyHistory() []float64
}

// Animator is an optional capability: plants that can draw themselves
// return one pre-rendered terminal frame per recorded step.
type Animator interface {
	Frames(width, height int) []string
}

// Factory builds a plant from initial state values and physical constants.
type Factory func(initial, constants map[string]float64) (Plant, error)

// Registry resolves plant names to factories. An unregistered name is a
// configuration error, never a panic.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry with all built-in plants registered.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("Kettle", func(initial, constants map[string]float64) (Plant, error) {
		return NewKettle(initial, constants)
	})
	r.Register("InvertedPendulum", func(initial, constants map[string]float64) (Plant, error) {
		return NewInvertedPendulum(initial, constants)
	})
	return r
}

// Register adds or replaces a factory under the given name.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Create builds the named plant. Nil maps are treated as empty, matching
// the command line's optional --initial/--constant flags.
func (r *Registry) Create(name string, initial, constants map[string]float64) (Plant, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownPlant, name, r.Names())
	}
	if initial == nil {
		initial = map[string]float64{}
	}
	if constants == nil {
		constants = map[string]float64{}
	}
	return f(initial, constants)
}

// Names lists registered plant names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// decodeParams fills a parameter struct (pre-loaded with its defaults) from
// a name/value mapping. Keys the struct does not declare are an error so
// typos in plant configuration fail fast instead of silently simulating the
// wrong system.
func decodeParams(values map[string]float64, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(values); err != nil {
		return fmt.Errorf("plant: invalid parameters: %w", err)
	}
	return nil
}
