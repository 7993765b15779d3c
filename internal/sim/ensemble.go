package sim

import (
	"context"
	"sync"
)

// BuildFunc returns a fresh runner for one ensemble member. Runners must not
// share worlds or metrics.
type BuildFunc func(seed int64) (*Runner, error)

// Ensemble runs one runner per seed concurrently.
type Ensemble struct {
	build BuildFunc
	seeds []int64
	// OnDone, when set, is called after each member finishes. Calls are
	// serialized.
	OnDone func(done, total int)
}

func NewEnsemble(build BuildFunc, seeds []int64) *Ensemble {
	return &Ensemble{build: build, seeds: seeds}
}

// Run returns results in seed order. Any member error fails the whole run.
func (e *Ensemble) Run(ctx context.Context, ticks int) ([]*Result, error) {
	results := make([]*Result, len(e.seeds))
	errs := make([]error, len(e.seeds))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)
	for i, seed := range e.seeds {
		wg.Add(1)
		go func(idx int, seed int64) {
			defer wg.Done()

			r, err := e.build(seed)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = r.Run(ctx, ticks)

			if e.OnDone != nil {
				mu.Lock()
				done++
				e.OnDone(done, len(e.seeds))
				mu.Unlock()
			}
		}(i, seed)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
