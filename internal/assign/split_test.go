/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package assign

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/friendsincode/courtplan/internal/booking"
)

// splitFixture leaves exactly two complementary free windows: court-1
// is free [480, 570), court-2 is free [570, 660).
func splitFixture() []booking.Reservation {
	return []booking.Reservation{
		pinned("fill-a", "court-1", 570, 1320),
		pinned("fill-b1", "court-2", 480, 570),
		pinned("fill-b2", "court-2", 660, 1320),
	}
}

func TestAssignSplitsAcrossCourts(t *testing.T) {
	cfg := testConfig(2)
	cfg.AllowSplitting = true

	reservations := append(splitFixture(), flexible("long", 480, 660))
	result := New(cfg, zerolog.Nop()).Assign(reservations)

	if len(result.Unassigned) != 0 {
		t.Fatalf("unassigned = %v, want none", result.Unassigned)
	}

	var frags []booking.Assignment
	for _, group := range booking.GroupByReservation(result.Assignments) {
		if group.ReservationID == "long" {
			frags = group.Fragments
		}
	}
	if len(frags) != 2 {
		t.Fatalf("got %d fragments, want 2", len(frags))
	}
	for _, f := range frags {
		if !f.Split {
			t.Errorf("fragment %+v not marked split", f)
		}
	}
	if frags[0].ResourceID != "court-1" || frags[0].Slot.Start != 480 || frags[0].Slot.End != 570 {
		t.Errorf("first fragment = %s %v, want court-1 [480, 570)", frags[0].ResourceID, frags[0].Slot)
	}
	if frags[1].ResourceID != "court-2" || frags[1].Slot.Start != 570 || frags[1].Slot.End != 660 {
		t.Errorf("second fragment = %s %v, want court-2 [570, 660)", frags[1].ResourceID, frags[1].Slot)
	}
}

func TestAssignSplitIsAllOrNothing(t *testing.T) {
	cfg := testConfig(2)
	cfg.AllowSplitting = true

	// 240 minutes cannot be covered: the combined free windows end at
	// 660. No partial fragments may leak into the result.
	reservations := append(splitFixture(), flexible("too-long", 480, 720))
	result := New(cfg, zerolog.Nop()).Assign(reservations)

	for _, a := range result.Assignments {
		if a.ID == "too-long" {
			t.Fatalf("partial fragment committed: %+v", a)
		}
	}
	if len(result.Unassigned) != 1 || result.Unassigned[0].ID != "too-long" {
		t.Errorf("unassigned = %v, want the uncoverable reservation", result.Unassigned)
	}
}

func TestAssignNoSplittingWhenDisabled(t *testing.T) {
	cfg := testConfig(2)

	reservations := append(splitFixture(), flexible("long", 480, 660))
	result := New(cfg, zerolog.Nop()).Assign(reservations)

	for _, a := range result.Assignments {
		if a.Split {
			t.Fatalf("split fragment with splitting disabled: %+v", a)
		}
		if a.ID == "long" {
			t.Fatalf("reservation placed without a court that can hold it whole: %+v", a)
		}
	}
	if len(result.Unassigned) != 1 || result.Unassigned[0].ID != "long" {
		t.Errorf("unassigned = %v, want the oversized reservation", result.Unassigned)
	}
}
