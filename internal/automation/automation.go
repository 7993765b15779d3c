package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/driftpair/internal/config"
	"github.com/san-kum/driftpair/internal/metrics"
	"github.com/san-kum/driftpair/internal/sim"
	"github.com/san-kum/driftpair/internal/storage"
)

// Progress is called after each finished unit of work.
type Progress func(done, total int)

// Scenario defines a scripted sequence of headless runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. Zero fields keep the base
// configuration's value.
type ScenarioStep struct {
	Preset string     `yaml:"preset"`
	Levels []*float64 `yaml:"levels"`
	Ticks  int        `yaml:"ticks"`
	Seed   int64      `yaml:"seed"`
	Noise  string     `yaml:"noise"`
	Smooth float64    `yaml:"smooth"`
	Save   bool       `yaml:"save"`
}

type StepResult struct {
	Step   int
	Preset string
	RunID  string
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// NewRunner returns a runner for cfg with the standard metrics attached.
func NewRunner(cfg *config.Config) (*sim.Runner, error) {
	w, err := cfg.World()
	if err != nil {
		return nil, err
	}
	r := sim.New(w)
	r.AddMetric(metrics.NewSeparation())
	r.AddMetric(metrics.NewTravel())
	r.AddMetric(metrics.NewCooperation())
	return r, nil
}

func (s ScenarioStep) apply(base *config.Config) (*config.Config, error) {
	cfg := base.Clone()
	if s.Preset != "" {
		if err := cfg.Apply(s.Preset); err != nil {
			return nil, err
		}
	}
	for i, l := range s.Levels {
		if err := cfg.SetLevel(i, l); err != nil {
			return nil, err
		}
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Noise != "" {
		cfg.Noise = s.Noise
	}
	if s.Smooth != 0 {
		cfg.Smooth = s.Smooth
	}
	return cfg, nil
}

// RunScenario executes all steps in a scenario on top of base. Steps marked
// save are stored in st, which may be nil when no step saves.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, st *storage.Store, progress Progress) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.apply(base)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		runner, err := NewRunner(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		ticks := step.Ticks
		if ticks == 0 {
			ticks = DefaultTicks
		}
		result, err := runner.Run(ctx, ticks)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: i + 1, Preset: cfg.Preset, Result: result}
		if step.Save {
			if st == nil {
				return results, fmt.Errorf("step %d: no store to save to", i+1)
			}
			sr.RunID, err = st.Save(storage.Describe(cfg.Preset, runner.World()), result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}

		results = append(results, sr)
		if progress != nil {
			progress(i+1, len(scenario.Steps))
		}
	}

	return results, nil
}

const DefaultTicks = 600

// ParameterSweep runs the same scene across a range of coordination levels
// for one entity.
type ParameterSweep struct {
	Base     *config.Config
	Entity   int
	LevelMin float64
	LevelMax float64
	NumSteps int
	Ticks    int
}

// SweepResult holds the metrics of one sweep point
type SweepResult struct {
	Level       float64
	Separation  float64
	Travel      float64
	Cooperation float64
}

// RunSweep executes a parameter sweep. Every point reuses the base seed so
// the noise is identical across points; a zero base seed is fixed first.
func RunSweep(ctx context.Context, sweep *ParameterSweep, progress Progress) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	base := sweep.Base.Clone()
	if base.Seed == 0 {
		base.Seed = time.Now().UnixNano()
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.LevelMax - sweep.LevelMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		level := sweep.LevelMin + float64(i)*paramStep
		cfg := base.Clone()
		if err := cfg.SetLevel(sweep.Entity, &level); err != nil {
			return nil, err
		}

		runner, err := NewRunner(cfg)
		if err != nil {
			return nil, err
		}
		result, err := runner.Run(ctx, sweep.Ticks)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			Level:       level,
			Separation:  result.Metrics["separation"],
			Travel:      result.Metrics["travel"],
			Cooperation: result.Metrics["cooperation"],
		})

		if progress != nil {
			progress(i+1, sweep.NumSteps)
		}
	}

	return results, nil
}

// MonteCarloConfig repeats one scene with different seeds
type MonteCarloConfig struct {
	Base      *config.Config
	NumTrials int
	Ticks     int
	Seed      int64
}

// MonteCarloResult holds the outcome of one trial
type MonteCarloResult struct {
	TrialID         int
	Seed            int64
	Separation      float64
	FinalSeparation float64
}

// RunMonteCarlo executes the trials concurrently, each with a seed drawn
// from cfg.Seed. Results are in trial order.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, progress Progress) ([]MonteCarloResult, error) {
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("monte carlo needs at least 1 trial, got %d", cfg.NumTrials)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	seeds := make([]int64, cfg.NumTrials)
	for i := range seeds {
		// never 0, which would pick a random seed
		seeds[i] = rng.Int63n(math.MaxInt64-1) + 1
	}

	ensemble := sim.NewEnsemble(func(seed int64) (*sim.Runner, error) {
		scene := cfg.Base.Clone()
		scene.Seed = seed
		return NewRunner(scene)
	}, seeds)
	if progress != nil {
		ensemble.OnDone = progress
	}

	runs, err := ensemble.Run(ctx, cfg.Ticks)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for trial, result := range runs {
		final := 0.0
		if n := len(result.Separations); n > 0 {
			final = result.Separations[n-1]
		}
		results[trial] = MonteCarloResult{
			TrialID:         trial,
			Seed:            seeds[trial],
			Separation:      result.Metrics["separation"],
			FinalSeparation: final,
		}
	}

	return results, nil
}

// MonteCarloStats computes the mean and standard deviation of the mean
// separation over all trials.
func MonteCarloStats(results []MonteCarloResult) (mean, stddev float64) {
	if len(results) == 0 {
		return 0, 0
	}
	for _, r := range results {
		mean += r.Separation
	}
	mean /= float64(len(results))
	for _, r := range results {
		d := r.Separation - mean
		stddev += d * d
	}
	stddev = math.Sqrt(stddev / float64(len(results)))
	return
}
