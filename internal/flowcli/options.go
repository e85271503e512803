// Package flowcli parses the density-sweep CLI, which measures traffic flow
// against car density at fixed sample cells.
package flowcli

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"nstraffic/internal/output"
	"nstraffic/internal/version"
)

// Options holds all flags of the flow/density sweep tool.
type Options struct {
	Scenario string

	Cells int
	VMax  int
	P     float64
	T0    int
	Seed  int64
	Steps int

	Densities []float64

	Bottleneck bool
	BNStart    int
	BNEnd      int
	VMaxBN     int
	Inflow     float64

	FirstSample   int
	SampleSpacing int

	Threads int
	Sort    bool

	Output string
	Header bool
	Quiet  bool

	Version bool
}

var tuningFlags = map[string]bool{
	"cells": true, "vmax": true, "p": true, "t0": true, "seed": true,
	"steps": true, "densities": true, "bottleneck": true, "bn-start": true,
	"bn-end": true, "vmax-bn": true, "inflow": true, "first-sample": true,
	"sample-spacing": true,
}

// Usage installs the top-level help text on fs.
func Usage(fs *flag.FlagSet, name string) {
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: flow-vs-density measurement for the Nagel-Schreckenberg lane model

Runs one simulation per requested density, samples occupancy and flow at
fixed sample cells, and prints one measurement row per density and cell.

Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
}

// ParseArgs registers and parses all flags, returning an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool
	var densities string

	fs.StringVar(&opt.Scenario, "scenario", "", "YAML scenario file (replaces tuning flags)")

	fs.IntVar(&opt.Cells, "cells", 1000, "number of lane cells [1000]")
	fs.IntVar(&opt.VMax, "vmax", 5, "global speed limit [5]")
	fs.Float64Var(&opt.P, "p", 0.5, "random braking probability [0.5]")
	fs.IntVar(&opt.T0, "t0", -1, "equilibration ticks before recording (-1 = 10*cells) [-1]")
	fs.Int64Var(&opt.Seed, "seed", -1, "base RNG seed, run i uses seed+i (-1 = time-seeded) [-1]")
	fs.IntVar(&opt.Steps, "steps", 1000, "recorded simulation ticks per run [1000]")

	fs.StringVar(&densities, "densities", "0.02,0.04,0.06,0.08,0.1,0.13,0.16,0.2",
		"comma-separated car densities, one run each")

	fs.BoolVar(&opt.Bottleneck, "bottleneck", false, "open-boundary model with inflow/outflow [false]")
	fs.IntVar(&opt.BNStart, "bn-start", -1, "first cell of the restricted region (-1 = none) [-1]")
	fs.IntVar(&opt.BNEnd, "bn-end", -1, "last cell of the restricted region [-1]")
	fs.IntVar(&opt.VMaxBN, "vmax-bn", 1, "speed limit inside the restricted region [1]")
	fs.Float64Var(&opt.Inflow, "inflow", 0.5, "per-tick entry probability at cell 0 [0.5]")

	fs.IntVar(&opt.FirstSample, "first-sample", 50, "first sample cell index [50]")
	fs.IntVar(&opt.SampleSpacing, "sample-spacing", 100, "spacing between sample cells [100]")

	fs.IntVar(&opt.Threads, "threads", 0, "number of worker threads (0 = all CPUs) [0]")
	fs.BoolVar(&opt.Sort, "sort", false, "sort rows by (density, sample cell) [false]")

	fs.StringVar(&opt.Output, "output", output.FormatText, "output format: text | json [text]")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line in text output [false]")
	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress warnings [false]")

	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	opt.Header = !noHeader

	if opt.Scenario != "" {
		var conflict string
		fs.Visit(func(f *flag.Flag) {
			if tuningFlags[f.Name] {
				conflict = f.Name
			}
		})
		if conflict != "" {
			return opt, fmt.Errorf("--scenario conflicts with --%s", conflict)
		}
	}

	var err error
	opt.Densities, err = parseDensities(densities)
	if err != nil {
		return opt, err
	}

	if err := validate(opt); err != nil {
		return opt, err
	}
	return opt, nil
}

func parseDensities(s string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		d, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("bad density %q in --densities", field)
		}
		if d < 0 || d > 1 {
			return nil, fmt.Errorf("density %g outside [0,1] in --densities", d)
		}
		out = append(out, d)
	}
	if len(out) == 0 {
		return nil, errors.New("--densities must list at least one value")
	}
	return out, nil
}

func validate(opt Options) error {
	switch {
	case opt.Steps <= 0:
		return errors.New("--steps must be > 0")
	case opt.P < 0 || opt.P > 1:
		return errors.New("--p must be in [0,1]")
	case opt.Inflow < 0 || opt.Inflow > 1:
		return errors.New("--inflow must be in [0,1]")
	case opt.BNStart >= 0 && opt.BNEnd < opt.BNStart:
		return errors.New("--bn-end must be >= --bn-start")
	case opt.BNStart >= 0 && !opt.Bottleneck:
		return errors.New("--bn-start requires --bottleneck")
	case opt.Threads < 0:
		return errors.New("--threads must be >= 0")
	case opt.FirstSample < 0:
		return errors.New("--first-sample must be >= 0")
	case opt.SampleSpacing <= 0:
		return errors.New("--sample-spacing must be > 0")
	}
	if opt.Output != output.FormatText && opt.Output != output.FormatJSON {
		return fmt.Errorf("invalid --output %q", opt.Output)
	}
	return nil
}
