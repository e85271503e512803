package output

import (
	"io"

	"nstraffic-core/lane"
	"nstraffic/internal/jsonutil"
	"nstraffic/pkg/api"
)

// HistoryRows converts recorded snapshots to the wire history matrix.
func HistoryRows(history []lane.Snapshot) [][]int {
	rows := make([][]int, len(history))
	for i, snap := range history {
		rows[i] = append([]int(nil), snap...)
	}
	return rows
}

// WriteRunJSON writes one run with its parameters as pretty-indented JSON.
func WriteRunJSON(w io.Writer, run api.RunV1) error {
	return jsonutil.EncodePretty(w, run)
}

// WriteFlowJSON writes sweep measurements as a single JSON array.
func WriteFlowJSON(w io.Writer, points []api.FlowPointV1) error {
	return jsonutil.EncodePretty(w, points)
}
