/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package simulation

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/friendsincode/courtplan/internal/assign"
	"github.com/friendsincode/courtplan/internal/booking"
)

// Algorithm labels used in stats and metrics.
const (
	AlgorithmSmart = "smart"
	AlgorithmNaive = "naive"
)

// seedStride separates per-iteration rng streams. Declared unsigned:
// the value does not fit int64 and the derivation below wraps in
// uint64 before converting.
const seedStride uint64 = 0x9E3779B97F4A7C15

// MetricsRecorder receives per-iteration and per-run observations.
// The telemetry package provides a Prometheus-backed implementation.
type MetricsRecorder interface {
	ObserveIteration(algorithm string, utilization float64, gapMinutes, unassigned int)
	ObserveRun(iterations int, seconds float64)
}

type nopMetrics struct{}

func (nopMetrics) ObserveIteration(string, float64, int, int) {}
func (nopMetrics) ObserveRun(int, float64)                    {}

// RunStats aggregates one algorithm's results across iterations.
type RunStats struct {
	MeanUtilization   float64
	MinUtilization    float64
	MaxUtilization    float64
	MeanGapMinutes    float64
	MeanFragmentation float64
	MeanUnassigned    float64
	MeanRevenue       float64
}

// SampleDay is the retained iteration with the largest smart-vs-naive
// gap-minutes delta, kept for downstream inspection.
type SampleDay struct {
	Iteration    int
	GapDelta     int
	Reservations []booking.Reservation
	Smart        booking.Result
	Naive        booking.Result
}

// Result is the aggregate outcome of a simulation run.
type Result struct {
	Iterations int
	Smart      RunStats
	Naive      RunStats
	Sample     SampleDay
}

// iterationOutcome holds one iteration's raw numbers, reduced in index
// order so the aggregate is independent of worker scheduling.
type iterationOutcome struct {
	reservations []booking.Reservation
	smart        booking.Result
	naive        booking.Result
}

// Runner drives independent simulation iterations.
type Runner struct {
	logger  zerolog.Logger
	metrics MetricsRecorder
}

// NewRunner creates a simulation runner. A nil metrics recorder
// disables metrics.
func NewRunner(logger zerolog.Logger, metrics MetricsRecorder) *Runner {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Runner{
		logger:  logger.With().Str("component", "simulation").Logger(),
		metrics: metrics,
	}
}

// Run executes the configured number of iterations, each generating a
// fresh feasibility-tracked workload and assigning it with both
// algorithms. Iterations run on an errgroup pool when Workers > 1;
// per-iteration rngs derive from the run seed and the iteration index,
// so results are bit-identical regardless of worker count.
func (r *Runner) Run(ctx context.Context, p Params) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, fmt.Errorf("validate simulation params: %w", err)
	}

	cfg := p.Config()
	started := time.Now()
	outcomes := make([]iterationOutcome, p.Iterations)

	workers := p.Workers
	if workers < 1 {
		workers = 1
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i := 0; i < p.Iterations; i++ {
		i := i
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = r.runIteration(i, p, cfg)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Result{}, err
	}

	result := r.aggregate(p, cfg, outcomes)
	elapsed := time.Since(started)
	r.metrics.ObserveRun(p.Iterations, elapsed.Seconds())
	r.logger.Info().
		Int("iterations", p.Iterations).
		Dur("elapsed", elapsed).
		Float64("smart_mean_gap", result.Smart.MeanGapMinutes).
		Float64("naive_mean_gap", result.Naive.MeanGapMinutes).
		Msg("simulation run complete")
	return result, nil
}

func (r *Runner) runIteration(i int, p Params, cfg booking.Config) iterationOutcome {
	iterSeed := int64(uint64(p.Seed) + uint64(i)*seedStride)
	genRng := rand.New(rand.NewSource(iterSeed))
	naiveRng := rand.New(rand.NewSource(iterSeed ^ 0x5DEECE66D))

	gen := newGenerator(genRng, p.Resources, p.Hours, p.Demand)
	reservations := gen.Generate()

	smart := assign.New(cfg, r.logger).Assign(reservations)
	naive := assign.Naive(reservations, cfg, naiveRng)

	return iterationOutcome{reservations: reservations, smart: smart, naive: naive}
}

func (r *Runner) aggregate(p Params, cfg booking.Config, outcomes []iterationOutcome) Result {
	capacity := float64(len(p.Resources) * p.Hours.Window())

	var smartAcc, naiveAcc statsAccumulator
	sample := SampleDay{Iteration: -1}

	for i, out := range outcomes {
		smartAcc.add(out.smart, capacity, p.PricePerHour)
		naiveAcc.add(out.naive, capacity, p.PricePerHour)

		r.metrics.ObserveIteration(AlgorithmSmart, utilization(out.smart, capacity), out.smart.TotalGapMinutes, len(out.smart.Unassigned))
		r.metrics.ObserveIteration(AlgorithmNaive, utilization(out.naive, capacity), out.naive.TotalGapMinutes, len(out.naive.Unassigned))

		delta := out.naive.TotalGapMinutes - out.smart.TotalGapMinutes
		if sample.Iteration == -1 || delta > sample.GapDelta {
			sample = SampleDay{
				Iteration:    i,
				GapDelta:     delta,
				Reservations: out.reservations,
				Smart:        out.smart,
				Naive:        out.naive,
			}
		}
	}

	return Result{
		Iterations: len(outcomes),
		Smart:      smartAcc.stats(),
		Naive:      naiveAcc.stats(),
		Sample:     sample,
	}
}

func utilization(res booking.Result, capacity float64) float64 {
	booked := 0
	for _, a := range res.Assignments {
		booked += a.Slot.Duration()
	}
	return float64(booked) / capacity
}

// statsAccumulator folds iteration results into RunStats.
type statsAccumulator struct {
	n             int
	utilSum       float64
	utilMin       float64
	utilMax       float64
	gapSum        float64
	fragSum       float64
	unassignedSum float64
	revenueSum    float64
}

func (s *statsAccumulator) add(res booking.Result, capacity, pricePerHour float64) {
	util := utilization(res, capacity)
	booked := capacity * util // minutes
	if s.n == 0 || util < s.utilMin {
		s.utilMin = util
	}
	if s.n == 0 || util > s.utilMax {
		s.utilMax = util
	}
	s.n++
	s.utilSum += util
	s.gapSum += float64(res.TotalGapMinutes)
	s.fragSum += res.Fragmentation
	s.unassignedSum += float64(len(res.Unassigned))
	s.revenueSum += pricePerHour * booked / 60
}

func (s *statsAccumulator) stats() RunStats {
	if s.n == 0 {
		return RunStats{}
	}
	n := float64(s.n)
	return RunStats{
		MeanUtilization:   s.utilSum / n,
		MinUtilization:    s.utilMin,
		MaxUtilization:    s.utilMax,
		MeanGapMinutes:    s.gapSum / n,
		MeanFragmentation: s.fragSum / n,
		MeanUnassigned:    s.unassignedSum / n,
		MeanRevenue:       s.revenueSum / n,
	}
}
