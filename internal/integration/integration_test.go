package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nstraffic/internal/app"
	"nstraffic/pkg/api"
)

func run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := app.Run(args, &out, &errBuf)
	return out.String(), errBuf.String(), code
}

func TestEndToEndText(t *testing.T) {
	out, errOut, code := run(t,
		"--cells", "30", "--cars", "5", "--steps", "10",
		"--p", "0", "--seed", "3", "--t0", "0",
	)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errOut)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 12 { // header + equilibrated state + 10 ticks
		t.Fatalf("got %d lines, want 12:\n%s", len(lines), out)
	}
	for _, line := range lines[1:] {
		if len(line) != 30 {
			t.Fatalf("row width %d, want 30: %q", len(line), line)
		}
		if n := strings.Count(line, "."); 30-n != 5 {
			t.Fatalf("row has %d cars, want 5: %q", 30-n, line)
		}
	}
}

func TestSeedReproducible(t *testing.T) {
	args := []string{"--cells", "50", "--density", "0.2", "--steps", "20", "--seed", "11"}
	a, _, codeA := run(t, args...)
	b, _, codeB := run(t, args...)
	if codeA != 0 || codeB != 0 {
		t.Fatalf("exits %d/%d", codeA, codeB)
	}
	if a != b {
		t.Fatal("same seed produced different histories")
	}
}

func TestJSONOutput(t *testing.T) {
	out, errOut, code := run(t,
		"--cells", "20", "--cars", "3", "--steps", "5", "--seed", "1",
		"--t0", "0", "--output", "json",
	)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errOut)
	}
	var runV1 api.RunV1
	if err := json.Unmarshal([]byte(out), &runV1); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if runV1.Model != "circular" || runV1.Cells != 20 || runV1.Cars != 3 {
		t.Errorf("unexpected metadata: %+v", runV1)
	}
	if runV1.RunID == "" {
		t.Error("missing run_id")
	}
	if len(runV1.History) != 6 {
		t.Errorf("history has %d rows, want 6", len(runV1.History))
	}
}

func TestBottleneckFlags(t *testing.T) {
	out, errOut, code := run(t,
		"--bottleneck", "--bn-start", "10", "--bn-end", "15",
		"--cells", "30", "--density", "0.1", "--steps", "10",
		"--seed", "5", "--output", "json",
	)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errOut)
	}
	var runV1 api.RunV1
	if err := json.Unmarshal([]byte(out), &runV1); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if runV1.Model != "bottleneck" || runV1.Bottleneck == nil || runV1.Bottleneck.Start != 10 {
		t.Errorf("unexpected metadata: %+v", runV1)
	}
}

func TestScenarioFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	body := "cells: 25\ncars: 4\nsteps: 8\nseed: 2\nt0: 0\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	out, errOut, code := run(t, "--scenario", path, "--no-header")
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errOut)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 9 {
		t.Fatalf("got %d rows, want 9:\n%s", len(lines), out)
	}
}

func TestInvalidFlagsExitTwo(t *testing.T) {
	_, errOut, code := run(t, "--cars", "50", "--cells", "10")
	if code != 2 {
		t.Fatalf("exit %d, want 2 (stderr=%s)", code, errOut)
	}
	if errOut == "" {
		t.Error("expected an error message on stderr")
	}
}
