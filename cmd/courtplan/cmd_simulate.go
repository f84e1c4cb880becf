/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/friendsincode/courtplan/internal/config"
	"github.com/friendsincode/courtplan/internal/simulation"
	"github.com/friendsincode/courtplan/internal/telemetry"
	"github.com/friendsincode/courtplan/internal/version"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the Monte Carlo assigner comparison",
	Long:  "Generate randomized daily workloads from a scenario file and compare the scoring assigner against the naive baseline",
	RunE:  runSimulate,
}

var (
	simScenarioPath string
	simIterations   int
	simSeed         int64
	simSplitting    bool
	simWorkers      int
)

func init() {
	simulateCmd.Flags().StringVar(&simScenarioPath, "scenario", "", "scenario YAML file (required)")
	simulateCmd.Flags().IntVar(&simIterations, "iterations", 200, "number of simulated days")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 1, "simulation seed")
	simulateCmd.Flags().BoolVar(&simSplitting, "splitting", false, "allow splitting a reservation across courts")
	simulateCmd.Flags().IntVar(&simWorkers, "workers", 1, "concurrent iterations (results are seed-stable regardless)")
	_ = simulateCmd.MarkFlagRequired("scenario")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	loadConfig()

	scenario, err := config.LoadScenario(simScenarioPath)
	if err != nil {
		return err
	}
	bookingCfg, err := scenario.BookingConfig(simSplitting)
	if err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}

	ctx := cmd.Context()
	tracerProvider, err := telemetry.InitTracer(ctx, telemetry.TracerConfig{
		ServiceName:    "courtplan",
		ServiceVersion: version.Version,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TracingEnabled,
		SampleRate:     cfg.TracingSampleRate,
	}, logger)
	if err != nil {
		return fmt.Errorf("initialize tracer: %w", err)
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown tracer provider")
		}
	}()

	collector := telemetry.NewCollector()
	if cfg.MetricsBind != "" {
		go func() {
			logger.Info().Str("addr", cfg.MetricsBind).Msg("metrics listener starting")
			if err := http.ListenAndServe(cfg.MetricsBind, collector.Router()); err != nil {
				logger.Error().Err(err).Msg("metrics listener stopped")
			}
		}()
	}

	params := simulation.Params{
		Resources:      bookingCfg.Resources,
		Hours:          bookingCfg.Hours,
		Iterations:     simIterations,
		Demand:         scenario.DemandParams(),
		Seed:           simSeed,
		AllowSplitting: simSplitting,
		PricePerHour:   scenario.PricePerHour,
		Weights:        bookingCfg.Weights,
		Workers:        simWorkers,
	}

	ctx, span := telemetry.StartSpan(ctx, "simulation.run")
	telemetry.SpanInt(span, "iterations", simIterations)
	defer span.End()

	runner := simulation.NewRunner(logger, collector)
	result, err := runner.Run(ctx, params)
	if err != nil {
		return err
	}

	logStats("smart", result.Smart)
	logStats("naive", result.Naive)
	logger.Info().
		Int("iteration", result.Sample.Iteration).
		Int("gap_delta_minutes", result.Sample.GapDelta).
		Int("reservations", len(result.Sample.Reservations)).
		Msg("sample day (largest smart advantage)")
	return nil
}

func logStats(algorithm string, stats simulation.RunStats) {
	logger.Info().
		Str("algorithm", algorithm).
		Float64("mean_utilization", stats.MeanUtilization).
		Float64("min_utilization", stats.MinUtilization).
		Float64("max_utilization", stats.MaxUtilization).
		Float64("mean_gap_minutes", stats.MeanGapMinutes).
		Float64("mean_fragmentation", stats.MeanFragmentation).
		Float64("mean_unassigned", stats.MeanUnassigned).
		Float64("mean_revenue", stats.MeanRevenue).
		Msg("run statistics")
}
