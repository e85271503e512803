package engine

import (
	"math/rand"

	"nstraffic-core/lane"
)

// circularRule is the closed-system transition: periodic boundaries, car
// count conserved.
type circularRule struct {
	vMax int
	p    float64
}

// Next applies the four-stage rule to every car against the pre-transition
// snapshot, so per-car order does not matter within a tick.
func (r circularRule) Next(cur lane.Snapshot, rng *rand.Rand) lane.Snapshot {
	cells := len(cur)
	next := lane.NewEmpty(cells)
	cars := cur.CarIndices()
	if len(cars) == 0 {
		return next
	}

	for i, pos := range cars {
		// Cyclic forward gap to the next car; a lone car sees the whole
		// lane length.
		var gap int
		if i == len(cars)-1 {
			gap = cars[0] + cells - pos
		} else {
			gap = cars[i+1] - pos
		}

		v := cur[pos]

		// Acceleration: conservative variant, only when the higher speed
		// still fits strictly inside the gap.
		if v < r.vMax && v+1 < gap {
			v++
		}

		// Gap clamp. Cars occupy distinct cells so gap >= 1 and the clamp
		// cannot go negative.
		if v >= gap {
			v = gap - 1
		}

		// Random braking. One draw per car per tick, taken whether or not
		// it applies, so the stream advances identically for every state.
		if rng.Float64() < r.p && v > 0 {
			v--
		}

		next[(pos+v)%cells] = v
	}
	return next
}
