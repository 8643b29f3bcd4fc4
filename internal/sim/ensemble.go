package sim

import (
	"sync"

	"github.com/eschneider1992/sim-control-projects/internal/plant"
)

// RunEnsemble executes the same configuration several times in parallel,
// each run with its own plant instance and a distinct noise seed
// (seedStart, seedStart+1, ...). Results come back in seed order. A run
// count below one is treated as one.
//
// With noise disabled every run is identical, so an ensemble is only
// informative when SensorNoiseStdDev is positive.
func RunEnsemble(cfg Config, newPlant func() (plant.Plant, error), runs int, seedStart int64) ([]*Result, error) {
	if runs < 1 {
		runs = 1
	}

	results := make([]*Result, runs)
	errs := make([]error, runs)

	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = seedStart + int64(idx)

			p, err := newPlant()
			if err != nil {
				errs[idx] = err
				return
			}

			loop, err := New(cfgCopy, p)
			if err != nil {
				errs[idx] = err
				return
			}

			results[idx], errs[idx] = loop.Run()
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
