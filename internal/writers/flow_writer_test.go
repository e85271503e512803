package writers

import (
	"bytes"
	"strings"
	"testing"

	"nstraffic/pkg/api"
)

func feed(t *testing.T, format string, sort bool, points []api.FlowPointV1) string {
	t.Helper()
	var buf bytes.Buffer
	in, errCh := StartFlowWriter(&buf, format, sort, true, 4)
	for _, p := range points {
		in <- p
	}
	close(in)
	if err := <-errCh; err != nil {
		t.Fatalf("writer: %v", err)
	}
	return buf.String()
}

func TestTextStreaming(t *testing.T) {
	got := feed(t, "text", false, []api.FlowPointV1{
		{Density: 0.1, Cars: 10, SampleCell: 50, Occupancy: 0.1, Flow: 0.2},
		{Density: 0.2, Cars: 20, SampleCell: 50, Occupancy: 0.2, Flow: 0.3},
	})
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines: %q", len(lines), got)
	}
	if !strings.HasPrefix(lines[0], "density\t") {
		t.Errorf("missing header: %q", lines[0])
	}
}

func TestSortOrders(t *testing.T) {
	got := feed(t, "text", true, []api.FlowPointV1{
		{Density: 0.2, SampleCell: 50},
		{Density: 0.1, SampleCell: 150},
		{Density: 0.1, SampleCell: 50},
	})
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines: %q", len(lines), got)
	}
	if !strings.HasPrefix(lines[1], "0.1\t0\t50") || !strings.HasPrefix(lines[2], "0.1\t0\t150") {
		t.Errorf("rows not sorted:\n%s", got)
	}
}

func TestUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	in, errCh := StartFlowWriter(&buf, "xml", false, true, 1)
	in <- api.FlowPointV1{}
	close(in)
	if err := <-errCh; err == nil {
		t.Fatal("expected error for unknown format")
	}
}
