package runutil

import (
	"fmt"

	"nstraffic-core/sample"
)

// ResolveSamples builds the sample-cell list for a sweep and reports
// warnings for degenerate choices. When no sample cell fits in the lane,
// the lane midpoint is used so a sweep always measures something.
func ResolveSamples(first, spacing, cells int) ([]int, []string) {
	var warns []string
	cellsList := sample.Cells(first, spacing, cells)
	if len(cellsList) == 0 {
		warns = append(warns,
			fmt.Sprintf("warning: no sample cell in [0,%d) for first=%d spacing=%d; sampling the midpoint", cells, first, spacing))
		cellsList = []int{cells / 2}
	}
	return cellsList, warns
}
