package engine

import (
	"fmt"
	"math/rand"

	"nstraffic-core/lane"
)

// BottleneckConfig extends Config with the open-boundary parameters.
type BottleneckConfig struct {
	Config

	// BNStart/BNEnd bound the reduced-speed region, inclusive. BNStart < 0
	// disables the region entirely.
	BNStart int
	BNEnd   int
	// VMaxBN caps velocity inside [BNStart, BNEnd].
	VMaxBN int
	// Inflow is the probability that a car enters at cell 0 on a tick that
	// leaves that cell empty.
	Inflow float64
}

// NewBottleneck builds an open-lane engine: stochastic inflow at cell 0,
// outflow past the last cell, and an optional speed-restricted region.
// Placement and equilibration are shared with the circular engine.
func NewBottleneck(cfg BottleneckConfig) (*Engine, error) {
	if err := validate(cfg.Config); err != nil {
		return nil, err
	}
	if cfg.Inflow < 0 || cfg.Inflow > 1 {
		return nil, fmt.Errorf("%w: inflow must be in [0,1], got %g", ErrConfig, cfg.Inflow)
	}
	if cfg.BNStart >= 0 {
		if cfg.BNEnd < cfg.BNStart || cfg.BNEnd >= cfg.Cells {
			return nil, fmt.Errorf("%w: bottleneck bounds [%d,%d] outside lane of %d cells",
				ErrConfig, cfg.BNStart, cfg.BNEnd, cfg.Cells)
		}
		if cfg.VMaxBN < 0 {
			return nil, fmt.Errorf("%w: bottleneck v_max must be >= 0, got %d", ErrConfig, cfg.VMaxBN)
		}
	}
	return newEngine(cfg.Config, bottleneckRule{
		vMax:    cfg.VMax,
		vMaxBN:  cfg.VMaxBN,
		p:       cfg.P,
		inflow:  cfg.Inflow,
		bnStart: cfg.BNStart,
		bnEnd:   cfg.BNEnd,
	})
}

// bottleneckRule is the open-system transition. Cars are created at cell 0
// and destroyed once their displacement carries them past the last cell.
type bottleneckRule struct {
	vMax    int
	vMaxBN  int
	p       float64
	inflow  float64
	bnStart int // <0 disables the region
	bnEnd   int
}

// localMax is the speed limit applying at a car's current cell. The limit
// is a hard cap: a car that entered the region above VMaxBN is held at
// VMaxBN, not merely denied acceleration.
func (r bottleneckRule) localMax(pos int) int {
	if r.bnStart >= 0 && pos >= r.bnStart && pos <= r.bnEnd {
		return r.vMaxBN
	}
	return r.vMax
}

func (r bottleneckRule) Next(cur lane.Snapshot, rng *rand.Rand) lane.Snapshot {
	cells := len(cur)
	next := lane.NewEmpty(cells)
	cars := cur.CarIndices()

	// Empty lane: the only possible event is inflow.
	if len(cars) == 0 {
		if rng.Float64() < r.inflow {
			next[0] = 0
		}
		return next
	}

	for i, pos := range cars {
		// The car nearest the exit has no car ahead; vMax+1 makes the gap
		// non-binding against the global cap.
		gap := r.vMax + 1
		if i < len(cars)-1 {
			gap = cars[i+1] - pos
		}

		limit := r.localMax(pos)
		v := cur[pos]
		if v < limit {
			v++
		} else {
			v = limit
		}

		// Gap clamp, floored at 0: a stopped car directly behind another
		// has gap 1 and must not go negative.
		if v >= gap {
			v = gap - 1
		}
		if v < 0 {
			v = 0
		}

		if rng.Float64() < r.p && v > 0 {
			v--
		}

		// Motion; positions past the lane end have exited.
		if pos+v < cells {
			next[pos+v] = v
		}
	}

	// Inflow after motion, only if the entrance is still free.
	if next[0] == lane.Empty && rng.Float64() < r.inflow {
		next[0] = 0
	}
	return next
}
