// Package lane holds the discrete single-lane state shared by both
// boundary regimes of the traffic model.
package lane

import "strings"

// Empty marks an unoccupied cell.
const Empty = -1

// Snapshot is one lane state. The index is the cell position; the value is
// the velocity of the car occupying that cell, or Empty.
type Snapshot []int

// NewEmpty returns a lane of the given length with every cell empty.
func NewEmpty(cells int) Snapshot {
	s := make(Snapshot, cells)
	for i := range s {
		s[i] = Empty
	}
	return s
}

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}

// CarIndices returns the occupied cell positions in increasing order.
func (s Snapshot) CarIndices() []int {
	var idx []int
	for i, v := range s {
		if v > Empty {
			idx = append(idx, i)
		}
	}
	return idx
}

// CarCount returns the number of occupied cells.
func (s Snapshot) CarCount() int {
	n := 0
	for _, v := range s {
		if v > Empty {
			n++
		}
	}
	return n
}

// String renders the lane as one space-time diagram row: '.' for an empty
// cell, the velocity digit for an occupied one ('+' for velocities >= 10).
func (s Snapshot) String() string {
	var b strings.Builder
	b.Grow(len(s))
	for _, v := range s {
		switch {
		case v == Empty:
			b.WriteByte('.')
		case v < 10:
			b.WriteByte(byte('0' + v))
		default:
			b.WriteByte('+')
		}
	}
	return b.String()
}
