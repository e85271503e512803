// Package config loads YAML scenario files describing a simulation run or a
// density sweep, replacing long flag lists for repeatable experiments.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario mirrors the tunable parameters of both CLIs. Zero values are
// filled from Default before use.
type Scenario struct {
	Cells int     `yaml:"cells"`
	Steps int     `yaml:"steps"`
	VMax  int     `yaml:"vmax"`
	P     float64 `yaml:"p"`
	T0    int     `yaml:"t0"`
	Seed  int64   `yaml:"seed"`

	// Single-run car placement: Cars wins when >= 0, otherwise Density*Cells.
	Cars    int     `yaml:"cars"`
	Density float64 `yaml:"density"`

	// Sweep-only fields.
	Densities     []float64 `yaml:"densities"`
	FirstSample   int       `yaml:"first_sample"`
	SampleSpacing int       `yaml:"sample_spacing"`

	Bottleneck *Bottleneck `yaml:"bottleneck"`
}

// Bottleneck enables the open-boundary model; a nil block means circular.
type Bottleneck struct {
	Start  int     `yaml:"start"`
	End    int     `yaml:"end"`
	VMax   int     `yaml:"vmax"`
	Inflow float64 `yaml:"inflow"`
}

// Default returns the baseline scenario, matching the CLI flag defaults.
func Default() Scenario {
	return Scenario{
		Cells:         100,
		Steps:         100,
		VMax:          5,
		P:             0.5,
		T0:            -1, // 10*cells
		Seed:          -1, // time-seeded
		Cars:          -1,
		Density:       0.3,
		FirstSample:   50,
		SampleSpacing: 100,
	}
}

// Load reads a scenario file and overlays it on the defaults. Only keys
// present in the file override; validation is left to the engine and CLIs.
func Load(path string) (Scenario, error) {
	sc := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return sc, fmt.Errorf("scenario %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil && err != io.EOF {
		return sc, fmt.Errorf("scenario %s: %v", path, err)
	}
	if sc.Density < 0 || sc.Density > 1 {
		return sc, fmt.Errorf("scenario %s: density %g outside [0,1]", path, sc.Density)
	}
	for _, d := range sc.Densities {
		if d < 0 || d > 1 {
			return sc, fmt.Errorf("scenario %s: density %g outside [0,1]", path, d)
		}
	}
	return sc, nil
}

// ResolveCars turns the Cars/Density pair into a concrete car count.
func (s Scenario) ResolveCars() int {
	if s.Cars >= 0 {
		return s.Cars
	}
	return int(s.Density * float64(s.Cells))
}
