package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

// The domain core and the lower layers must stay ignorant of the CLI glue:
// output/writers/pipeline never reach up into app or cmd packages.
func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "./...")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	bans := map[string][]string{
		"nstraffic/internal/pipeline": {
			"nstraffic/internal/app", "nstraffic/internal/flowapp",
			"nstraffic/internal/cli", "nstraffic/internal/flowcli",
			"nstraffic/internal/writers", "nstraffic/internal/output",
			"nstraffic/cmd/",
		},
		"nstraffic/internal/writers": {
			"nstraffic/internal/app", "nstraffic/internal/flowapp",
			"nstraffic/internal/cli", "nstraffic/internal/flowcli",
			"nstraffic/internal/pipeline", "nstraffic/cmd/",
		},
		"nstraffic/internal/output": {
			"nstraffic/internal/app", "nstraffic/internal/flowapp",
			"nstraffic/internal/cli", "nstraffic/internal/flowcli",
			"nstraffic/internal/pipeline", "nstraffic/cmd/",
		},
		"nstraffic/internal/config": {
			"nstraffic/internal/app", "nstraffic/internal/flowapp",
			"nstraffic/internal/cli", "nstraffic/internal/flowcli",
			"nstraffic/cmd/",
		},
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, "nstraffic/") {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if !strings.HasPrefix(imp, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				if !strings.HasPrefix(dep, "nstraffic/") {
					continue
				}
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
