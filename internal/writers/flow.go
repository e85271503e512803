// Package writers runs per-format writer goroutines fed over a channel, so
// producers stream results without knowing the output format.
package writers

import (
	"fmt"
	"io"

	"nstraffic/internal/common"
	"nstraffic/internal/output"
	"nstraffic/pkg/api"
)

// StartFlowWriter spins up a writer goroutine for flow points. The caller
// closes the returned channel when done and then reads the single error.
func StartFlowWriter(out io.Writer, format string, sortRows, header bool, bufSize int) (chan<- api.FlowPointV1, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan api.FlowPointV1, bufSize)
	errCh := make(chan error, 1)

	go func() {
		var err error
		switch format {
		case output.FormatJSON:
			var buf []api.FlowPointV1
			for p := range in {
				buf = append(buf, p)
			}
			if sortRows {
				common.SortFlowPoints(buf)
			}
			err = output.WriteFlowJSON(out, buf)

		case output.FormatText:
			if sortRows {
				var buf []api.FlowPointV1
				for p := range in {
					buf = append(buf, p)
				}
				common.SortFlowPoints(buf)
				err = writeFlowText(out, buf, header)
			} else {
				if header {
					err = output.WriteFlowHeader(out)
				}
				for p := range in {
					if err != nil {
						continue // drain
					}
					err = output.WriteFlowRow(out, p)
				}
			}

		default:
			for range in {
			}
			err = fmt.Errorf("unknown flow format %q", format)
		}
		errCh <- err
		close(errCh)
	}()

	return in, errCh
}

func writeFlowText(out io.Writer, points []api.FlowPointV1, header bool) error {
	if header {
		if err := output.WriteFlowHeader(out); err != nil {
			return err
		}
	}
	for _, p := range points {
		if err := output.WriteFlowRow(out, p); err != nil {
			return err
		}
	}
	return nil
}
