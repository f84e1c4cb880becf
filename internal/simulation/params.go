/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package simulation generates randomized daily workloads and compares
// the scoring assigner against the naive baseline over many
// iterations.
package simulation

import (
	"errors"
	"fmt"

	"github.com/friendsincode/courtplan/internal/booking"
)

// DurationWeight is one entry of the demand duration mix.
type DurationWeight struct {
	Minutes int
	Weight  float64
}

// DemandParams shape the randomized daily workload.
type DemandParams struct {
	MeanDailyCount float64
	DurationMix    []DurationWeight
	LockedFraction float64 // fraction of reservations pinned to a court
	VarianceCoeff  float64 // daily count stddev as a fraction of the mean
}

// Params drives one simulation run.
type Params struct {
	Resources      []booking.Resource
	Hours          booking.OperatingHours
	Iterations     int
	Demand         DemandParams
	Seed           int64
	AllowSplitting bool
	PricePerHour   float64
	Weights        *booking.Weights
	Workers        int // 0 means sequential
}

// Config builds the assigner configuration shared by both algorithms.
func (p Params) Config() booking.Config {
	return booking.Config{
		Resources:      p.Resources,
		Hours:          p.Hours,
		Weights:        p.Weights,
		AllowSplitting: p.AllowSplitting,
		PricePerHour:   p.PricePerHour,
	}
}

// Validate rejects malformed run parameters at the boundary.
func (p Params) Validate() error {
	if err := p.Config().Validate(); err != nil {
		return err
	}
	if p.Iterations <= 0 {
		return errors.New("iterations must be positive")
	}
	if p.Demand.MeanDailyCount < 0 {
		return errors.New("mean daily count must not be negative")
	}
	if p.Demand.LockedFraction < 0 || p.Demand.LockedFraction > 1 {
		return fmt.Errorf("locked fraction %v is outside [0, 1]", p.Demand.LockedFraction)
	}
	if p.Demand.VarianceCoeff < 0 {
		return errors.New("variance coefficient must not be negative")
	}
	for _, dw := range p.Demand.DurationMix {
		if dw.Minutes <= 0 || dw.Minutes > p.Hours.Window() {
			return fmt.Errorf("duration mix entry %d minutes does not fit the operating window", dw.Minutes)
		}
		if dw.Weight < 0 {
			return errors.New("duration mix weights must not be negative")
		}
	}
	if p.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	return nil
}

// defaultDurationMix is used when the scenario does not specify one.
var defaultDurationMix = []DurationWeight{
	{Minutes: 60, Weight: 0.5},
	{Minutes: 90, Weight: 0.3},
	{Minutes: 120, Weight: 0.2},
}
