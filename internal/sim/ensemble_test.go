package sim

import (
	"errors"
	"testing"

	"github.com/eschneider1992/sim-control-projects/internal/plant"
)

func TestEnsembleSeedsDiffer(t *testing.T) {
	cfg := testConfig()
	cfg.SensorNoiseStdDev = 0.5

	newPlant := func() (plant.Plant, error) {
		return &testPlant{gain: 0.1}, nil
	}

	results, err := RunEnsemble(cfg, newPlant, 3, 42)
	if err != nil {
		t.Fatalf("RunEnsemble failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	// Distinct seeds must produce distinct noisy sensor traces.
	for i := 1; i < len(results); i++ {
		same := true
		for k := range results[0].SensorStates {
			if results[i].SensorStates[k] != results[0].SensorStates[k] {
				same = false
				break
			}
		}
		if same {
			t.Errorf("run %d identical to run 0 despite different seed", i)
		}
	}
}

func TestEnsembleNoiseFreeRunsIdentical(t *testing.T) {
	cfg := testConfig()

	newPlant := func() (plant.Plant, error) {
		return &testPlant{gain: 0.1}, nil
	}

	results, err := RunEnsemble(cfg, newPlant, 4, 1)
	if err != nil {
		t.Fatalf("RunEnsemble failed: %v", err)
	}

	for i := 1; i < len(results); i++ {
		for k := range results[0].SensorStates {
			if results[i].SensorStates[k] != results[0].SensorStates[k] {
				t.Fatalf("noise-free run %d diverged at sample %d", i, k)
			}
		}
	}
}

func TestEnsembleClampsRunCount(t *testing.T) {
	newPlant := func() (plant.Plant, error) {
		return &testPlant{gain: 0.1}, nil
	}

	results, err := RunEnsemble(testConfig(), newPlant, 0, 1)
	if err != nil {
		t.Fatalf("RunEnsemble failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestEnsemblePropagatesPlantError(t *testing.T) {
	wantErr := errors.New("no such plant")
	newPlant := func() (plant.Plant, error) {
		return nil, wantErr
	}

	if _, err := RunEnsemble(testConfig(), newPlant, 2, 1); !errors.Is(err, wantErr) {
		t.Errorf("got err %v, want %v", err, wantErr)
	}
}
