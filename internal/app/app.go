// Package app wires the single-run CLI: parse flags or a scenario file,
// construct the configured engine exactly once, simulate, and write the
// recorded history in the requested format.
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/google/uuid"

	"nstraffic-core/engine"
	"nstraffic-core/lane"
	"nstraffic/internal/cli"
	"nstraffic/internal/config"
	"nstraffic/internal/output"
	"nstraffic/internal/version"
	"nstraffic/internal/writers"
	"nstraffic/pkg/api"
)

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("nstraffic")
	cli.Usage(fs, "nstraffic")
	fs.SetOutput(io.Discard)

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			return flushCode(outw, stderr, 0)
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(outw)
		fs.Usage()
		return flushCode(outw, stderr, 2)
	}
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "nstraffic version %s\n", version.Version)
		return flushCode(outw, stderr, 0)
	}

	sc := scenarioFromOptions(opts)
	if opts.Scenario != "" {
		sc, err = config.Load(opts.Scenario)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 2
		}
	}

	eng, bn, err := buildEngine(sc)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	if parent.Err() != nil {
		return 130
	}
	eng.Simulate(sc.Steps)

	if err := writeRun(outw, opts, sc, bn, eng.History()); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	return flushCode(outw, stderr, 0)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// scenarioFromOptions maps inline flags onto the scenario shape so both
// input paths feed the same construction code.
func scenarioFromOptions(o cli.Options) config.Scenario {
	sc := config.Default()
	sc.Cells = o.Cells
	sc.Steps = o.Steps
	sc.VMax = o.VMax
	sc.P = o.P
	sc.T0 = o.T0
	sc.Seed = o.Seed
	sc.Cars = o.Cars
	sc.Density = o.Density
	if o.Bottleneck {
		sc.Bottleneck = &config.Bottleneck{
			Start:  o.BNStart,
			End:    o.BNEnd,
			VMax:   o.VMaxBN,
			Inflow: o.Inflow,
		}
	}
	return sc
}

// buildEngine constructs the engine matching the scenario; the bottleneck
// block, when present, selects the open-boundary model.
func buildEngine(sc config.Scenario) (*engine.Engine, *api.BottleneckV1, error) {
	base := engine.Config{
		Cars:  sc.ResolveCars(),
		Cells: sc.Cells,
		VMax:  sc.VMax,
		P:     sc.P,
		T0:    sc.T0,
		Seed:  sc.Seed,
	}
	if sc.Bottleneck == nil {
		eng, err := engine.NewCircular(base)
		return eng, nil, err
	}
	bn := sc.Bottleneck
	eng, err := engine.NewBottleneck(engine.BottleneckConfig{
		Config:  base,
		BNStart: bn.Start,
		BNEnd:   bn.End,
		VMaxBN:  bn.VMax,
		Inflow:  bn.Inflow,
	})
	if err != nil {
		return nil, nil, err
	}
	return eng, &api.BottleneckV1{Start: bn.Start, End: bn.End, VMax: bn.VMax, Inflow: bn.Inflow}, nil
}

func writeRun(w io.Writer, opts cli.Options, sc config.Scenario, bn *api.BottleneckV1, history []lane.Snapshot) error {
	switch opts.Output {
	case output.FormatText:
		return output.WriteHistoryText(w, history, opts.Header)
	case output.FormatTSV:
		return output.WriteHistoryTSV(w, history, opts.Header)
	case output.FormatJSON:
		model := "circular"
		if bn != nil {
			model = "bottleneck"
		}
		return output.WriteRunJSON(w, api.RunV1{
			RunID:      uuid.NewString(),
			Model:      model,
			Cells:      sc.Cells,
			Cars:       sc.ResolveCars(),
			VMax:       sc.VMax,
			P:          sc.P,
			T0:         sc.T0,
			Seed:       sc.Seed,
			Steps:      sc.Steps,
			Bottleneck: bn,
			History:    output.HistoryRows(history),
		})
	default:
		return fmt.Errorf("unknown output format %q", opts.Output)
	}
}

func flushCode(outw *bufio.Writer, stderr io.Writer, code int) int {
	if err := outw.Flush(); writers.IsBrokenPipe(err) {
		return 0
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	return code
}
