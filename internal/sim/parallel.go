package sim

import (
	"context"
	"sync"

	"github.com/san-kum/zendigits/internal/scene"
)

// Ensemble runs one independent scene per seed concurrently.
type Ensemble struct {
	factory   func(seed int64) *scene.Scene
	numRuns   int
	seedStart int64
}

func NewEnsemble(factory func(seed int64) *scene.Scene, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sim := New(e.factory(e.seedStart + int64(idx)))
			results[idx], errs[idx] = sim.Run(ctx, cfg)
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
