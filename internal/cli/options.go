package cli

import (
	"errors"
	"flag"
	"fmt"

	"nstraffic/internal/output"
	"nstraffic/internal/version"
)

// Options holds all flags of the single-run simulator.
type Options struct {
	// Scenario file (exclusive with the tuning flags below)
	Scenario string

	// Lane parameters
	Cells   int
	Cars    int     // -1 = derive from Density
	Density float64 // cars = int(Density*Cells)
	VMax    int
	P       float64
	T0      int   // -1 = 10*cells
	Seed    int64 // -1 = time-seeded
	Steps   int

	// Bottleneck (open-boundary) parameters
	Bottleneck bool
	BNStart    int
	BNEnd      int
	VMaxBN     int
	Inflow     float64

	// Output
	Output string
	Header bool // true unless --no-header
	Quiet  bool

	Version bool
}

// tuningFlags are the flags a scenario file replaces; setting any of them
// together with --scenario is an error.
var tuningFlags = map[string]bool{
	"cells": true, "cars": true, "density": true, "vmax": true, "p": true,
	"t0": true, "seed": true, "steps": true, "bottleneck": true,
	"bn-start": true, "bn-end": true, "vmax-bn": true, "inflow": true,
}

// Usage installs the top-level help text on fs.
func Usage(fs *flag.FlagSet, name string) {
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: Nagel-Schreckenberg single-lane traffic simulator

Runs the four-stage cellular-automaton update rule on a closed circular
lane, or on an open lane with a speed-restricted bottleneck, and prints
the recorded space-time history.

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

	fs.StringVar(&opt.Scenario, "scenario", "", "YAML scenario file (replaces tuning flags)")

	fs.IntVar(&opt.Cells, "cells", 100, "number of lane cells [100]")
	fs.IntVar(&opt.Cars, "cars", -1, "number of cars (-1 = derive from --density) [-1]")
	fs.Float64Var(&opt.Density, "density", 0.3, "car density, cars = density*cells [0.3]")
	fs.IntVar(&opt.VMax, "vmax", 5, "global speed limit [5]")
	fs.Float64Var(&opt.P, "p", 0.5, "random braking probability [0.5]")
	fs.IntVar(&opt.T0, "t0", -1, "equilibration ticks before recording (-1 = 10*cells) [-1]")
	fs.Int64Var(&opt.Seed, "seed", -1, "RNG seed (-1 = time-seeded, not reproducible) [-1]")
	fs.IntVar(&opt.Steps, "steps", 100, "recorded simulation ticks [100]")

	fs.BoolVar(&opt.Bottleneck, "bottleneck", false, "open-boundary model with inflow/outflow [false]")
	fs.IntVar(&opt.BNStart, "bn-start", -1, "first cell of the restricted region (-1 = none) [-1]")
	fs.IntVar(&opt.BNEnd, "bn-end", -1, "last cell of the restricted region [-1]")
	fs.IntVar(&opt.VMaxBN, "vmax-bn", 1, "speed limit inside the restricted region [1]")
	fs.Float64Var(&opt.Inflow, "inflow", 0.5, "per-tick entry probability at cell 0 [0.5]")

	fs.StringVar(&opt.Output, "output", output.FormatText, "output format: text | tsv | json [text]")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line in text/tsv [false]")
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

	if err := validate(opt); err != nil {
		return opt, err
	}
	return opt, nil
}

func validate(opt Options) error {
	switch {
	case opt.Steps < 0:
		return errors.New("--steps must be >= 0")
	case opt.Density < 0 || opt.Density > 1:
		return errors.New("--density must be in [0,1]")
	case opt.P < 0 || opt.P > 1:
		return errors.New("--p must be in [0,1]")
	case opt.Inflow < 0 || opt.Inflow > 1:
		return errors.New("--inflow must be in [0,1]")
	case opt.BNStart >= 0 && opt.BNEnd < opt.BNStart:
		return errors.New("--bn-end must be >= --bn-start")
	case opt.BNStart >= 0 && !opt.Bottleneck:
		return errors.New("--bn-start requires --bottleneck")
	}
	if opt.Output != output.FormatText && opt.Output != output.FormatTSV && opt.Output != output.FormatJSON {
		return fmt.Errorf("invalid --output %q", opt.Output)
	}
	return nil
}
