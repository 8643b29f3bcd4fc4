package plant

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCreate(t *testing.T) {
	r := NewRegistry()

	p, err := r.Create("Kettle", map[string]float64{"kettle_temp": 40.0}, nil)
	require.NoError(t, err)
	assert.Equal(t, 40.0, p.SensableState())

	p, err = r.Create("InvertedPendulum", map[string]float64{"theta0": 0.3}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.3, p.SensableState())
}

func TestRegistryUnknownPlant(t *testing.T) {
	r := NewRegistry()

	_, err := r.Create("Reactor", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownPlant))
}

func TestRegistryNames(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"InvertedPendulum", "Kettle"}, r.Names())
}

func TestOptionalCapabilities(t *testing.T) {
	r := NewRegistry()

	kettle, err := r.Create("Kettle", nil, nil)
	require.NoError(t, err)
	pendulum, err := r.Create("InvertedPendulum", nil, nil)
	require.NoError(t, err)

	// The kettle exposes none of the optional reporting hooks; the
	// pendulum exposes all three. Reporting probes these and the loop
	// never does.
	_, ok := kettle.(HistoryRecorder)
	assert.False(t, ok)
	_, ok = kettle.(EnergyReporter)
	assert.False(t, ok)
	_, ok = kettle.(Animator)
	assert.False(t, ok)

	_, ok = pendulum.(HistoryRecorder)
	assert.True(t, ok)
	_, ok = pendulum.(EnergyReporter)
	assert.True(t, ok)
	_, ok = pendulum.(Animator)
	assert.True(t, ok)
}
