package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"nstraffic-core/lane"
)

// WriteHistoryText prints the space-time history one row per tick, '.' for
// empty cells and the velocity digit for occupied ones.
func WriteHistoryText(w io.Writer, history []lane.Snapshot, header bool) error {
	if header && len(history) > 0 {
		if _, err := fmt.Fprintf(w, "# cells=%d ticks=%d\n", len(history[0]), len(history)); err != nil {
			return err
		}
	}
	for _, snap := range history {
		if _, err := fmt.Fprintln(w, snap.String()); err != nil {
			return err
		}
	}
	return nil
}

// WriteHistoryTSV prints one TSV row per tick: the tick index followed by
// every cell value, -1 marking empty cells.
func WriteHistoryTSV(w io.Writer, history []lane.Snapshot, header bool) error {
	if header && len(history) > 0 {
		cols := make([]string, 0, len(history[0])+1)
		cols = append(cols, "tick")
		for c := range history[0] {
			cols = append(cols, "c"+strconv.Itoa(c))
		}
		if _, err := fmt.Fprintln(w, strings.Join(cols, "\t")); err != nil {
			return err
		}
	}
	for tick, snap := range history {
		cols := make([]string, 0, len(snap)+1)
		cols = append(cols, strconv.Itoa(tick))
		for _, v := range snap {
			cols = append(cols, strconv.Itoa(v))
		}
		if _, err := fmt.Fprintln(w, strings.Join(cols, "\t")); err != nil {
			return err
		}
	}
	return nil
}
