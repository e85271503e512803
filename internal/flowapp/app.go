// Package flowapp wires the density-sweep CLI: one engine per density on a
// worker pool, sampled occupancy/flow streamed to a per-format writer.
package flowapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime"

	"nstraffic/internal/cli"
	"nstraffic/internal/cmdutil"
	"nstraffic/internal/config"
	"nstraffic/internal/flowcli"
	"nstraffic/internal/pipeline"
	"nstraffic/internal/runutil"
	"nstraffic/internal/version"
	"nstraffic/internal/writers"
	"nstraffic/pkg/api"
)

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("nstraffic-flow")
	flowcli.Usage(fs, "nstraffic-flow")
	fs.SetOutput(io.Discard)

	opts, err := flowcli.ParseArgs(fs, argv)
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
		_, _ = fmt.Fprintf(outw, "nstraffic-flow version %s\n", version.Version)
		return flushCode(outw, stderr, 0)
	}

	if opts.Scenario != "" {
		sc, err := config.Load(opts.Scenario)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 2
		}
		applyScenario(&opts, sc)
	}
	if len(opts.Densities) == 0 {
		_, _ = fmt.Fprintln(stderr, "no densities to sweep")
		return 2
	}

	samples, warns := runutil.ResolveSamples(opts.FirstSample, opts.SampleSpacing, opts.Cells)
	for _, w := range warns {
		cmdutil.Warnf(stderr, opts.Quiet, "%s", w)
	}

	thr := opts.Threads
	if thr <= 0 {
		thr = runtime.NumCPU()
	}

	cfg := pipeline.Config{
		Cells:      opts.Cells,
		VMax:       opts.VMax,
		P:          opts.P,
		T0:         opts.T0,
		Seed:       opts.Seed,
		Steps:      opts.Steps,
		Samples:    samples,
		Bottleneck: opts.Bottleneck,
		BNStart:    opts.BNStart,
		BNEnd:      opts.BNEnd,
		VMaxBN:     opts.VMaxBN,
		Inflow:     opts.Inflow,
		Threads:    thr,
	}

	inCh, writeErr := writers.StartFlowWriter(outw, opts.Output, opts.Sort, opts.Header, thr*4)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	perr := pipeline.ForEachPoint(ctx, cfg, opts.Densities, func(pt pipeline.Point) error {
		select {
		case inCh <- api.FlowPointV1{
			Density:    pt.Density,
			Cars:       pt.Cars,
			SampleCell: pt.SampleCell,
			Occupancy:  pt.Occupancy,
			Flow:       pt.Flow,
		}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	close(inCh)

	if werr := <-writeErr; writers.IsBrokenPipe(werr) {
		return 0
	} else if werr != nil {
		_, _ = fmt.Fprintln(stderr, werr)
		return 3
	}
	if code := flushCode(outw, stderr, 0); code != 0 {
		return code
	}
	if perr != nil {
		if errors.Is(perr, context.Canceled) {
			return 130
		}
		_, _ = fmt.Fprintln(stderr, perr)
		return 3
	}
	return 0
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// applyScenario overlays scenario values onto the sweep options. The
// conflict check in flowcli guarantees no tuning flag was set alongside.
func applyScenario(opts *flowcli.Options, sc config.Scenario) {
	opts.Cells = sc.Cells
	opts.Steps = sc.Steps
	opts.VMax = sc.VMax
	opts.P = sc.P
	opts.T0 = sc.T0
	opts.Seed = sc.Seed
	opts.FirstSample = sc.FirstSample
	opts.SampleSpacing = sc.SampleSpacing
	if len(sc.Densities) > 0 {
		opts.Densities = sc.Densities
	}
	if sc.Bottleneck != nil {
		opts.Bottleneck = true
		opts.BNStart = sc.Bottleneck.Start
		opts.BNEnd = sc.Bottleneck.End
		opts.VMaxBN = sc.Bottleneck.VMax
		opts.Inflow = sc.Bottleneck.Inflow
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
