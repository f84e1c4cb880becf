/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package assign contains the placement engines: the scoring
// first-fit-decreasing assigner with splitting, compaction and split
// reduction, the naive random-placement baseline, and the
// cancellation handler.
package assign

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/friendsincode/courtplan/internal/analyzer"
	"github.com/friendsincode/courtplan/internal/booking"
	"github.com/friendsincode/courtplan/internal/interval"
)

// Assigner is the scoring first-fit-decreasing placement engine.
type Assigner struct {
	cfg    booking.Config
	logger zerolog.Logger
}

// New creates an assigner for one day's configuration.
func New(cfg booking.Config, logger zerolog.Logger) *Assigner {
	return &Assigner{
		cfg:    cfg,
		logger: logger.With().Str("component", "smart_assigner").Logger(),
	}
}

// Assign places the reservations and returns the result contract.
// Pinned reservations are placed first in input order; flexible
// reservations are scored per court and placed largest-first among
// simultaneous starts.
func (a *Assigner) Assign(reservations []booking.Reservation) booking.Result {
	pinned, flexible := partition(reservations)

	var assignments []booking.Assignment
	var unassigned []booking.Reservation

	assignments, unassigned = placePinned(assignments, unassigned, pinned, a.cfg)

	sortFlexible(flexible)

	for _, r := range flexible {
		best, ok := a.bestPlacement(assignments, r)
		if ok {
			assignments = append(assignments, booking.Assignment{Reservation: r, ResourceID: best})
			continue
		}
		if a.cfg.AllowSplitting {
			if fragments, ok := a.trySplit(assignments, r); ok {
				assignments = append(assignments, fragments...)
				continue
			}
		}
		a.logger.Debug().Str("reservation", r.ID).Msg("no court can hold reservation")
		unassigned = append(unassigned, r)
	}

	assignments = a.compact(assignments)
	if a.cfg.AllowSplitting {
		assignments = a.reduceSplits(assignments)
	}

	return finalize(assignments, unassigned, a.cfg)
}

// partition separates pinned from flexible requests, keeping input
// order within each class.
func partition(reservations []booking.Reservation) (pinned, flexible []booking.Reservation) {
	for _, r := range reservations {
		if r.Pinned() {
			pinned = append(pinned, r)
		} else {
			flexible = append(flexible, r)
		}
	}
	return pinned, flexible
}

// placePinned puts each pinned reservation on its court unless the
// court already holds an overlapping booking; first seen wins. A
// reference to an unknown court is unassignable, never a crash.
func placePinned(assignments []booking.Assignment, unassigned, pinned []booking.Reservation, cfg booking.Config) ([]booking.Assignment, []booking.Reservation) {
	for _, r := range pinned {
		if !cfg.HasResource(r.PinnedResourceID) || !slotFree(assignments, r.PinnedResourceID, r, cfg.Hours) {
			unassigned = append(unassigned, r)
			continue
		}
		assignments = append(assignments, booking.Assignment{Reservation: r, ResourceID: r.PinnedResourceID})
	}
	return assignments, unassigned
}

// slotFree reports whether the reservation's slot fits inside some
// current free slot on the court.
func slotFree(assignments []booking.Assignment, resourceID string, r booking.Reservation, hours booking.OperatingHours) bool {
	for _, free := range booking.FreeSlotsOn(assignments, resourceID, hours) {
		if interval.Fits(r.Slot, free) {
			return true
		}
	}
	return false
}

// sortFlexible orders flexible requests by start ascending, ties
// broken by duration descending (decreasing-size bin packing among
// simultaneous starts).
func sortFlexible(flexible []booking.Reservation) {
	sort.SliceStable(flexible, func(i, j int) bool {
		if flexible[i].Slot.Start != flexible[j].Slot.Start {
			return flexible[i].Slot.Start < flexible[j].Slot.Start
		}
		return flexible[i].Slot.Duration() > flexible[j].Slot.Duration()
	})
}

// finalize attaches the recomputed gap metrics to the assignment
// state.
func finalize(assignments []booking.Assignment, unassigned []booking.Reservation, cfg booking.Config) booking.Result {
	report := analyzer.Analyze(assignments, cfg.Resources, cfg.Hours)
	return booking.Result{
		Assignments:     assignments,
		Unassigned:      unassigned,
		Gaps:            report.Gaps,
		TotalGapMinutes: report.TotalGapMinutes,
		Fragmentation:   report.Fragmentation,
	}
}
