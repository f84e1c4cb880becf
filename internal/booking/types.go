/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package booking defines the shared scheduling domain model: courts,
// reservations, placements and the result contract every assigner
// returns.
package booking

import (
	"sort"

	"github.com/friendsincode/courtplan/internal/interval"
)

// Mode says whether the requester fixed the court in advance.
type Mode string

const (
	ModePinned   Mode = "pinned"
	ModeFlexible Mode = "flexible"
)

// Resource is one interchangeable bookable unit (a court) for a day.
type Resource struct {
	ID         string
	Name       string
	Attributes map[string]string
}

// Reservation is a request for one fixed time interval. It is never
// mutated after creation; placement produces Assignment records.
type Reservation struct {
	ID               string
	Slot             interval.Slot
	Mode             Mode
	PinnedResourceID string // set iff Mode == ModePinned
	Priority         int
}

// Pinned reports whether the reservation is fixed to a specific court.
func (r Reservation) Pinned() bool {
	return r.Mode == ModePinned
}

// Assignment is a reservation placed on a court. Fragments of a split
// reservation share the reservation ID and carry disjoint sub-slots in
// Slot; consumers must group by ID before treating a reservation as a
// unit.
type Assignment struct {
	Reservation
	ResourceID string
	Split      bool
}

// Gap is a maximal unbooked interval on one court within operating
// hours. Stranded gaps are too short to hold any future booking.
type Gap struct {
	ResourceID string
	Slot       interval.Slot
	Duration   int
	Stranded   bool
}

// OperatingHours describes the bookable window of the day.
type OperatingHours struct {
	Open            int // minutes since midnight
	Close           int
	MinSlotDuration int // shortest bookable duration
}

// Window returns the operating window length in minutes.
func (h OperatingHours) Window() int {
	return h.Close - h.Open
}

// Weights are the placement-scoring weights. GapPenalty is a negative
// magnitude applied per stranded gap a placement would create;
// LargeSlotPreserve is applied negatively and only when splitting is
// enabled.
type Weights struct {
	Adjacency         float64
	Contiguity        float64
	GapPenalty        float64
	Fill              float64
	LargeSlotPreserve float64
}

// DefaultWeights returns the calibrated scoring defaults.
func DefaultWeights() Weights {
	return Weights{
		Adjacency:         1.0,
		Contiguity:        1.5,
		GapPenalty:        -2.0,
		Fill:              3.0,
		LargeSlotPreserve: 2.0,
	}
}

// Config carries everything an assigner needs for one day.
type Config struct {
	Resources          []Resource
	Hours              OperatingHours
	Weights            *Weights // nil means DefaultWeights
	AllowSplitting     bool
	SplittingTolerance int // reserved; validated but not yet consumed
	PricePerHour       float64
}

// EffectiveWeights resolves the configured or default weights.
func (c Config) EffectiveWeights() Weights {
	if c.Weights != nil {
		return *c.Weights
	}
	return DefaultWeights()
}

// HasResource reports whether the config knows the given court id.
func (c Config) HasResource(id string) bool {
	for _, r := range c.Resources {
		if r.ID == id {
			return true
		}
	}
	return false
}

// Result is the sole output contract of any assigner.
type Result struct {
	Assignments     []Assignment
	Unassigned      []Reservation
	Gaps            []Gap
	TotalGapMinutes int
	Fragmentation   float64
}

// SlotsOn returns the booked slots on one court, sorted by start.
func SlotsOn(assignments []Assignment, resourceID string) []interval.Slot {
	var slots []interval.Slot
	for _, a := range assignments {
		if a.ResourceID == resourceID {
			slots = append(slots, a.Slot)
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Start < slots[j].Start })
	return slots
}

// BookedMinutesOn sums the booked minutes on one court.
func BookedMinutesOn(assignments []Assignment, resourceID string) int {
	total := 0
	for _, a := range assignments {
		if a.ResourceID == resourceID {
			total += a.Slot.Duration()
		}
	}
	return total
}

// FreeSlotsOn returns the maximal free intervals on one court within
// the operating window.
func FreeSlotsOn(assignments []Assignment, resourceID string, hours OperatingHours) []interval.Slot {
	return interval.FreeSlots(SlotsOn(assignments, resourceID), hours.Open, hours.Close)
}

// LargestFreeSlotAcross returns the maximum single free-slot duration
// over all given courts.
func LargestFreeSlotAcross(assignments []Assignment, resources []Resource, hours OperatingHours) int {
	largest := 0
	for _, r := range resources {
		for _, free := range FreeSlotsOn(assignments, r.ID, hours) {
			if d := free.Duration(); d > largest {
				largest = d
			}
		}
	}
	return largest
}

// ReservationGroup is the explicit one-to-many relation between a
// reservation id and its placement records. Non-split reservations
// have exactly one fragment.
type ReservationGroup struct {
	ReservationID string
	Fragments     []Assignment // ordered by slot start
}

// GroupByReservation groups assignments by reservation id, preserving
// first-appearance order of the ids.
func GroupByReservation(assignments []Assignment) []ReservationGroup {
	index := make(map[string]int)
	var groups []ReservationGroup
	for _, a := range assignments {
		i, ok := index[a.ID]
		if !ok {
			i = len(groups)
			index[a.ID] = i
			groups = append(groups, ReservationGroup{ReservationID: a.ID})
		}
		groups[i].Fragments = append(groups[i].Fragments, a)
	}
	for i := range groups {
		frags := groups[i].Fragments
		sort.Slice(frags, func(a, b int) bool { return frags[a].Slot.Start < frags[b].Slot.Start })
	}
	return groups
}
