package flowintegration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"nstraffic/internal/flowapp"
	"nstraffic/pkg/api"
)

func run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := flowapp.Run(args, &out, &errBuf)
	return out.String(), errBuf.String(), code
}

func TestSweepText(t *testing.T) {
	out, errOut, code := run(t,
		"--cells", "300", "--steps", "50", "--t0", "0", "--seed", "9",
		"--densities", "0.1,0.2",
	)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errOut)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// header + 2 densities * 3 sample cells (50, 150, 250)
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
}

func TestSweepJSONAndThreadIndependence(t *testing.T) {
	sweep := func(threads int) []api.FlowPointV1 {
		out, errOut, code := run(t,
			"--cells", "200", "--steps", "40", "--t0", "0", "--seed", "4",
			"--densities", "0.05,0.1,0.15",
			"--threads", fmt.Sprint(threads),
			"--output", "json",
		)
		if code != 0 {
			t.Fatalf("exit %d, stderr=%s", code, errOut)
		}
		var pts []api.FlowPointV1
		if err := json.Unmarshal([]byte(out), &pts); err != nil {
			t.Fatalf("bad JSON: %v", err)
		}
		return pts
	}

	serial := sweep(1)
	parallel := sweep(4)
	if len(serial) != 6 {
		t.Fatalf("got %d points, want 6", len(serial))
	}
	for i := range serial {
		if serial[i] != parallel[i] {
			t.Fatalf("point %d differs between thread counts:\n%+v\n%+v", i, serial[i], parallel[i])
		}
	}
}

func TestSampleFallbackWarns(t *testing.T) {
	out, errOut, code := run(t,
		"--cells", "40", "--steps", "10", "--t0", "0", "--seed", "1",
		"--densities", "0.1",
	)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errOut)
	}
	if !strings.Contains(errOut, "warning") {
		t.Errorf("expected sampling warning on stderr, got %q", errOut)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header plus one row:\n%s", len(lines), out)
	}
}

func TestBadDensitiesExitTwo(t *testing.T) {
	_, errOut, code := run(t, "--densities", "0.1,boom")
	if code != 2 {
		t.Fatalf("exit %d, want 2 (stderr=%s)", code, errOut)
	}
}
