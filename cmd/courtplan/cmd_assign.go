/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/friendsincode/courtplan/internal/assign"
	"github.com/friendsincode/courtplan/internal/booking"
	"github.com/friendsincode/courtplan/internal/config"
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign a scenario's reservation list",
	Long:  "Place the explicit reservations of a scenario file and report per-court placements, gaps and fragmentation",
	RunE:  runAssign,
}

var (
	assignScenarioPath string
	assignSplitting    bool
	assignNaive        bool
	assignSeed         int64
)

func init() {
	assignCmd.Flags().StringVar(&assignScenarioPath, "scenario", "", "scenario YAML file (required)")
	assignCmd.Flags().BoolVar(&assignSplitting, "splitting", false, "allow splitting a reservation across courts")
	assignCmd.Flags().BoolVar(&assignNaive, "naive", false, "use the naive baseline instead of the scoring assigner")
	assignCmd.Flags().Int64Var(&assignSeed, "seed", 1, "seed for the naive baseline's court shuffle")
	_ = assignCmd.MarkFlagRequired("scenario")
}

func runAssign(cmd *cobra.Command, args []string) error {
	loadConfig()

	scenario, err := config.LoadScenario(assignScenarioPath)
	if err != nil {
		return err
	}
	bookingCfg, err := scenario.BookingConfig(assignSplitting)
	if err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}
	reservations, err := scenario.BookingReservations(bookingCfg)
	if err != nil {
		return fmt.Errorf("invalid reservations: %w", err)
	}
	if len(reservations) == 0 {
		return fmt.Errorf("scenario %s has no reservations to assign", assignScenarioPath)
	}

	var result booking.Result
	if assignNaive {
		result = assign.Naive(reservations, bookingCfg, rand.New(rand.NewSource(assignSeed)))
	} else {
		result = assign.New(bookingCfg, logger).Assign(reservations)
	}

	for _, group := range booking.GroupByReservation(result.Assignments) {
		for _, frag := range group.Fragments {
			logger.Info().
				Str("reservation", frag.ID).
				Str("court", frag.ResourceID).
				Int("start", frag.Slot.Start).
				Int("end", frag.Slot.End).
				Bool("split", frag.Split).
				Msg("placed")
		}
	}
	for _, r := range result.Unassigned {
		logger.Warn().
			Str("reservation", r.ID).
			Int("start", r.Slot.Start).
			Int("end", r.Slot.End).
			Msg("unassigned")
	}
	logger.Info().
		Int("total_gap_minutes", result.TotalGapMinutes).
		Float64("fragmentation", result.Fragmentation).
		Int("gaps", len(result.Gaps)).
		Msg("assignment complete")
	return nil
}
