// Package api holds the stable wire types (v1) emitted by the CLIs.
// Downstream plotting and analysis tools parse these; do not leak internal
// engine types into them.
package api

// RunV1 is one recorded simulation run: its parameters and the full
// post-equilibration history, one row per tick, -1 marking empty cells.
type RunV1 struct {
	RunID string `json:"run_id"`
	Model string `json:"model"` // "circular" or "bottleneck"

	Cells int     `json:"cells"`
	Cars  int     `json:"cars"`
	VMax  int     `json:"v_max"`
	P     float64 `json:"p"`
	T0    int     `json:"t0"`
	Seed  int64   `json:"seed"`
	Steps int     `json:"steps"`

	Bottleneck *BottleneckV1 `json:"bottleneck,omitempty"`

	History [][]int `json:"history"`
}

// BottleneckV1 describes the restricted region and open-boundary inflow.
type BottleneckV1 struct {
	Start  int     `json:"start"`
	End    int     `json:"end"`
	VMax   int     `json:"v_max"`
	Inflow float64 `json:"inflow"`
}

// FlowPointV1 is one sample-cell measurement from a density sweep.
type FlowPointV1 struct {
	Density    float64 `json:"density"` // requested system density
	Cars       int     `json:"cars"`
	SampleCell int     `json:"sample_cell"`
	Occupancy  float64 `json:"occupancy"`
	Flow       float64 `json:"flow"`
}
