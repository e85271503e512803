// Package sample provides the two sampling primitives consumed by
// flow/density analysis: mean occupancy at a set of sample cells, and mean
// flow of cars past those cells per tick.
package sample

import "nstraffic-core/lane"

// Cells returns the arithmetic series of sample indices first,
// first+spacing, ... strictly below cells.
func Cells(first, spacing, cells int) []int {
	if spacing <= 0 || first < 0 {
		return nil
	}
	var out []int
	for s := first; s < cells; s += spacing {
		out = append(out, s)
	}
	return out
}

// Occupancy returns, for each sample cell, the fraction of recorded
// snapshots in which that cell is occupied.
func Occupancy(history []lane.Snapshot, samples []int) []float64 {
	out := make([]float64, len(samples))
	if len(history) == 0 {
		return out
	}
	for si, s := range samples {
		n := 0
		for _, snap := range history {
			if snap[s] > lane.Empty {
				n++
			}
		}
		out[si] = float64(n) / float64(len(history))
	}
	return out
}

// Flow returns, for each sample cell, the fraction of recorded snapshots in
// which some car crossed that cell during the tick: a car recorded at cell
// s-i with velocity > i passed cell s on its way there. Lookback indices
// wrap cyclically, matching the circular lane's periodic boundary.
func Flow(history []lane.Snapshot, samples []int, vMax int) []float64 {
	out := make([]float64, len(samples))
	if len(history) == 0 {
		return out
	}
	for si, s := range samples {
		n := 0
		for _, snap := range history {
			if crossed(snap, s, vMax) {
				n++
			}
		}
		out[si] = float64(n) / float64(len(history))
	}
	return out
}

func crossed(snap lane.Snapshot, s, vMax int) bool {
	cells := len(snap)
	for i := 0; i < vMax; i++ {
		if snap[((s-i)%cells+cells)%cells] > i {
			return true
		}
	}
	return false
}
