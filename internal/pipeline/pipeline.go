// Package pipeline runs one simulation per requested density on a worker
// pool and streams sampled flow points to the caller. Ticks within one run
// stay strictly sequential; only whole runs execute in parallel, each with
// its own engine and random stream.
package pipeline

import (
	"context"
	"sync"

	"nstraffic-core/engine"
	"nstraffic-core/sample"
)

// Config describes the sweep shared by all runs.
type Config struct {
	Cells   int
	VMax    int
	P       float64
	T0      int
	Seed    int64 // base seed; run i uses Seed+i (<0 stays time-seeded)
	Steps   int
	Samples []int

	Bottleneck bool
	BNStart    int
	BNEnd      int
	VMaxBN     int
	Inflow     float64

	Threads int // worker goroutines (>=1)
}

// Point is one sample-cell measurement from one run.
type Point struct {
	Density    float64
	Cars       int
	SampleCell int
	Occupancy  float64
	Flow       float64
}

// RunSeed derives a deterministic per-run seed from the base seed. A
// negative base stays negative so every run remains time-seeded.
func RunSeed(base int64, run int) int64 {
	if base < 0 {
		return -1
	}
	return base + int64(run)
}

// ForEachPoint simulates every density and calls visit with each sampled
// point, ordered by run and then by sample cell regardless of thread count.
// It returns the first error encountered, including context cancellation.
func ForEachPoint(ctx context.Context, cfg Config, densities []float64, visit func(Point) error) error {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}

	jobs := make(chan int, len(densities))
	points := make([][]Point, len(densities))
	errs := make([]error, len(densities))

	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case i, ok := <-jobs:
					if !ok {
						return
					}
					points[i], errs[i] = runOne(cfg, i, densities[i])
				}
			}
		}()
	}

	for i := range densities {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	for i := range densities {
		if errs[i] != nil {
			return errs[i]
		}
		for _, pt := range points[i] {
			if err := visit(pt); err != nil {
				return err
			}
		}
	}
	return nil
}

// runOne builds the configured engine exactly once, simulates, and samples.
func runOne(cfg Config, run int, density float64) ([]Point, error) {
	cars := int(density * float64(cfg.Cells))
	base := engine.Config{
		Cars:  cars,
		Cells: cfg.Cells,
		VMax:  cfg.VMax,
		P:     cfg.P,
		T0:    cfg.T0,
		Seed:  RunSeed(cfg.Seed, run),
	}

	var (
		eng *engine.Engine
		err error
	)
	if cfg.Bottleneck {
		eng, err = engine.NewBottleneck(engine.BottleneckConfig{
			Config:  base,
			BNStart: cfg.BNStart,
			BNEnd:   cfg.BNEnd,
			VMaxBN:  cfg.VMaxBN,
			Inflow:  cfg.Inflow,
		})
	} else {
		eng, err = engine.NewCircular(base)
	}
	if err != nil {
		return nil, err
	}

	eng.Simulate(cfg.Steps)
	hist := eng.History()
	occ := sample.Occupancy(hist, cfg.Samples)
	flow := sample.Flow(hist, cfg.Samples, cfg.VMax)

	out := make([]Point, len(cfg.Samples))
	for si, cell := range cfg.Samples {
		out[si] = Point{
			Density:    density,
			Cars:       cars,
			SampleCell: cell,
			Occupancy:  occ[si],
			Flow:       flow[si],
		}
	}
	return out, nil
}
