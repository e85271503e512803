package common

import (
	"sort"

	"nstraffic/pkg/api"
)

// LessFlowPoint defines a stable order for sweep rows (for --sort).
func LessFlowPoint(a, b api.FlowPointV1) bool {
	if a.Density != b.Density {
		return a.Density < b.Density
	}
	return a.SampleCell < b.SampleCell
}

func SortFlowPoints(ps []api.FlowPointV1) {
	sort.Slice(ps, func(i, j int) bool { return LessFlowPoint(ps[i], ps[j]) })
}
