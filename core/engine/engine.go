// Package engine contains the Nagel–Schreckenberg transition core. It never
// imports cli, output, or pipeline; keep it domain-only.
//
// External outputs must not depend on the internal shape here — use pkg/api
// in the application module for stable wire types.
package engine

import (
	"fmt"
	"math/rand"
	"time"

	"nstraffic-core/lane"
)

// Config holds the parameters shared by both boundary regimes.
type Config struct {
	Cars  int     // number of cars placed at construction (ignored when Initial is set)
	Cells int     // lane length
	VMax  int     // global speed limit
	P     float64 // per-car random braking probability
	T0    int     // equilibration ticks before recording; <0 means 10*Cells
	Seed  int64   // RNG seed; <0 seeds from the wall clock (not reproducible)

	// Initial, when non-nil, is adopted as the starting layout instead of
	// random placement. Its length must equal Cells and every value must be
	// Empty or a velocity in [0, VMax].
	Initial lane.Snapshot
}

// Rule computes one lane transition. Implementations must treat cur as
// read-only and return a fresh snapshot; rng is the engine-owned stream.
type Rule interface {
	Next(cur lane.Snapshot, rng *rand.Rand) lane.Snapshot
}

// Engine drives a Rule over a lane, recording one snapshot per tick.
type Engine struct {
	cfg     Config
	rule    Rule
	rng     *rand.Rand
	state   lane.Snapshot
	history []lane.Snapshot
}

// NewCircular builds a closed-lane engine with periodic boundaries.
func NewCircular(cfg Config) (*Engine, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return newEngine(cfg, circularRule{vMax: cfg.VMax, p: cfg.P})
}

// newEngine places cars, runs the equilibration transient, and seeds the
// history with the first observable state. Shared by both regimes.
func newEngine(cfg Config, rule Rule) (*Engine, error) {
	seed := cfg.Seed
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	e := &Engine{
		cfg:  cfg,
		rule: rule,
		rng:  rand.New(rand.NewSource(seed)),
	}

	if cfg.Initial != nil {
		e.state = cfg.Initial.Clone()
	} else {
		e.state = lane.NewEmpty(cfg.Cells)
		for _, pos := range e.rng.Perm(cfg.Cells)[:cfg.Cars] {
			e.state[pos] = 0
		}
	}

	t0 := cfg.T0
	if t0 < 0 {
		t0 = 10 * cfg.Cells
	}
	for i := 0; i < t0; i++ {
		e.state = e.rule.Next(e.state, e.rng)
	}
	e.history = append(e.history, e.state)
	return e, nil
}

func validate(cfg Config) error {
	if cfg.Cells <= 0 {
		return fmt.Errorf("%w: cells must be > 0, got %d", ErrConfig, cfg.Cells)
	}
	if cfg.VMax < 0 {
		return fmt.Errorf("%w: v_max must be >= 0, got %d", ErrConfig, cfg.VMax)
	}
	if cfg.P < 0 || cfg.P > 1 {
		return fmt.Errorf("%w: braking probability must be in [0,1], got %g", ErrConfig, cfg.P)
	}
	if cfg.Initial != nil {
		if len(cfg.Initial) != cfg.Cells {
			return fmt.Errorf("%w: got length %d, want %d", ErrInitialState, len(cfg.Initial), cfg.Cells)
		}
		for i, v := range cfg.Initial {
			if v < lane.Empty || v > cfg.VMax {
				return fmt.Errorf("%w: cell %d holds velocity %d outside [0,%d]", ErrConfig, i, v, cfg.VMax)
			}
		}
		return nil
	}
	if cfg.Cars < 0 {
		return fmt.Errorf("%w: cars must be >= 0, got %d", ErrConfig, cfg.Cars)
	}
	if cfg.Cars > cfg.Cells {
		return fmt.Errorf("%w: %d cars, %d cells", ErrCarCount, cfg.Cars, cfg.Cells)
	}
	return nil
}

// NextState computes the successor of the current state without recording
// it. Each call consumes draws from the engine's random stream.
func (e *Engine) NextState() lane.Snapshot {
	return e.rule.Next(e.state, e.rng)
}

// Simulate advances the lane n ticks, appending every resulting snapshot to
// the history, and returns the final state.
func (e *Engine) Simulate(n int) lane.Snapshot {
	for i := 0; i < n; i++ {
		e.state = e.rule.Next(e.state, e.rng)
		e.history = append(e.history, e.state)
	}
	return e.state
}

// State returns the current lane snapshot.
func (e *Engine) State() lane.Snapshot { return e.state }

// History returns the recorded snapshots: the post-equilibration state
// followed by one entry per simulated tick. The slice is shared; callers
// must not mutate it.
func (e *Engine) History() []lane.Snapshot { return e.history }
