/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/friendsincode/courtplan/internal/booking"
	"github.com/friendsincode/courtplan/internal/interval"
	"github.com/friendsincode/courtplan/internal/simulation"
)

// Scenario is the YAML description of one day's scheduling setup:
// courts, operating hours, demand parameters and, optionally, an
// explicit reservation list for direct assignment.
type Scenario struct {
	Resources    []ResourceSpec    `yaml:"resources"`
	Hours        HoursSpec         `yaml:"hours"`
	Weights      *WeightsSpec      `yaml:"weights"`
	Demand       DemandSpec        `yaml:"demand"`
	Reservations []ReservationSpec `yaml:"reservations"`
	PricePerHour float64           `yaml:"price_per_hour"`
}

// ResourceSpec declares one court.
type ResourceSpec struct {
	ID         string            `yaml:"id"`
	Name       string            `yaml:"name"`
	Attributes map[string]string `yaml:"attributes"`
}

// HoursSpec declares the operating window with HH:MM clock strings.
type HoursSpec struct {
	Open            string `yaml:"open"`
	Close           string `yaml:"close"`
	MinSlotDuration int    `yaml:"min_slot_minutes"`
}

// WeightsSpec optionally overrides the scoring defaults.
type WeightsSpec struct {
	Adjacency         *float64 `yaml:"adjacency"`
	Contiguity        *float64 `yaml:"contiguity"`
	GapPenalty        *float64 `yaml:"gap_penalty"`
	Fill              *float64 `yaml:"fill"`
	LargeSlotPreserve *float64 `yaml:"large_slot_preserve"`
}

// DemandSpec declares the randomized workload shape.
type DemandSpec struct {
	MeanDailyCount float64            `yaml:"mean_daily_count"`
	DurationMix    []DurationMixEntry `yaml:"duration_mix"`
	LockedFraction float64            `yaml:"locked_fraction"`
	VarianceCoeff  float64            `yaml:"variance_coeff"`
}

// DurationMixEntry is one duration option with its relative weight.
type DurationMixEntry struct {
	Minutes int     `yaml:"minutes"`
	Weight  float64 `yaml:"weight"`
}

// ReservationSpec declares one explicit reservation for `assign`.
type ReservationSpec struct {
	ID       string `yaml:"id"`
	Start    string `yaml:"start"`
	End      string `yaml:"end"`
	Court    string `yaml:"court"` // non-empty pins the reservation
	Priority int    `yaml:"priority"`
}

// LoadScenario reads and parses a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &s, nil
}

// BookingConfig converts the scenario into the assigner configuration.
func (s *Scenario) BookingConfig(allowSplitting bool) (booking.Config, error) {
	open, err := ParseClock(s.Hours.Open)
	if err != nil {
		return booking.Config{}, fmt.Errorf("hours.open: %w", err)
	}
	close, err := ParseClock(s.Hours.Close)
	if err != nil {
		return booking.Config{}, fmt.Errorf("hours.close: %w", err)
	}

	resources := make([]booking.Resource, 0, len(s.Resources))
	for _, r := range s.Resources {
		resources = append(resources, booking.Resource{ID: r.ID, Name: r.Name, Attributes: r.Attributes})
	}

	cfg := booking.Config{
		Resources: resources,
		Hours: booking.OperatingHours{
			Open:            open,
			Close:           close,
			MinSlotDuration: s.Hours.MinSlotDuration,
		},
		Weights:        s.weights(),
		AllowSplitting: allowSplitting,
		PricePerHour:   s.PricePerHour,
	}
	if err := cfg.Validate(); err != nil {
		return booking.Config{}, err
	}
	return cfg, nil
}

func (s *Scenario) weights() *booking.Weights {
	if s.Weights == nil {
		return nil
	}
	w := booking.DefaultWeights()
	if s.Weights.Adjacency != nil {
		w.Adjacency = *s.Weights.Adjacency
	}
	if s.Weights.Contiguity != nil {
		w.Contiguity = *s.Weights.Contiguity
	}
	if s.Weights.GapPenalty != nil {
		w.GapPenalty = *s.Weights.GapPenalty
	}
	if s.Weights.Fill != nil {
		w.Fill = *s.Weights.Fill
	}
	if s.Weights.LargeSlotPreserve != nil {
		w.LargeSlotPreserve = *s.Weights.LargeSlotPreserve
	}
	return &w
}

// BookingReservations converts the explicit reservation list.
func (s *Scenario) BookingReservations(cfg booking.Config) ([]booking.Reservation, error) {
	reservations := make([]booking.Reservation, 0, len(s.Reservations))
	for _, spec := range s.Reservations {
		start, err := ParseClock(spec.Start)
		if err != nil {
			return nil, fmt.Errorf("reservation %q start: %w", spec.ID, err)
		}
		end, err := ParseClock(spec.End)
		if err != nil {
			return nil, fmt.Errorf("reservation %q end: %w", spec.ID, err)
		}
		mode := booking.ModeFlexible
		if spec.Court != "" {
			mode = booking.ModePinned
		}
		reservations = append(reservations, booking.Reservation{
			ID:               spec.ID,
			Slot:             interval.Slot{Start: start, End: end},
			Mode:             mode,
			PinnedResourceID: spec.Court,
			Priority:         spec.Priority,
		})
	}
	if err := booking.ValidateReservations(reservations, cfg); err != nil {
		return nil, err
	}
	return reservations, nil
}

// DemandParams converts the demand block.
func (s *Scenario) DemandParams() simulation.DemandParams {
	mix := make([]simulation.DurationWeight, 0, len(s.Demand.DurationMix))
	for _, entry := range s.Demand.DurationMix {
		mix = append(mix, simulation.DurationWeight{Minutes: entry.Minutes, Weight: entry.Weight})
	}
	return simulation.DemandParams{
		MeanDailyCount: s.Demand.MeanDailyCount,
		DurationMix:    mix,
		LockedFraction: s.Demand.LockedFraction,
		VarianceCoeff:  s.Demand.VarianceCoeff,
	}
}

// ParseClock converts an "HH:MM" string to minutes since midnight.
// 24:00 is accepted as end-of-day.
func ParseClock(value string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%q is not an HH:MM clock value", value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%q is not an HH:MM clock value", value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%q is not an HH:MM clock value", value)
	}
	total := hours*60 + minutes
	if hours < 0 || minutes < 0 || minutes > 59 || total > 1440 {
		return 0, fmt.Errorf("clock value %q is outside the day", value)
	}
	return total, nil
}
