package output

import (
	"fmt"
	"io"

	"nstraffic/pkg/api"
)

// WriteFlowHeader prints the TSV column header for flow rows.
func WriteFlowHeader(w io.Writer) error {
	_, err := fmt.Fprintln(w, "density\tcars\tsample_cell\toccupancy\tflow")
	return err
}

// WriteFlowRow prints one sweep measurement as a TSV line.
func WriteFlowRow(w io.Writer, p api.FlowPointV1) error {
	_, err := fmt.Fprintf(w, "%g\t%d\t%d\t%.6f\t%.6f\n",
		p.Density, p.Cars, p.SampleCell, p.Occupancy, p.Flow)
	return err
}
