/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package assign

import (
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/friendsincode/courtplan/internal/booking"
)

func TestCancelRemovesReservation(t *testing.T) {
	cfg := testConfig(3)
	before := New(cfg, zerolog.Nop()).Assign([]booking.Reservation{
		flexible("a", 480, 600),
		flexible("b", 600, 720),
		pinned("c", "court-1", 900, 1020),
	})

	after := Cancel("a", before, cfg, DefaultMaxChainDepth)

	for _, p := range after.Assignments {
		if p.ID == "a" {
			t.Fatalf("cancelled reservation still assigned: %+v", p)
		}
	}
	if len(after.Assignments) != len(before.Assignments)-1 {
		t.Errorf("assignments = %d, want %d", len(after.Assignments), len(before.Assignments)-1)
	}
	if got := courtOf(t, after, "c"); got != "court-1" {
		t.Errorf("pinned reservation moved to %s during cancellation", got)
	}
	if want := before.TotalGapMinutes + 120; after.TotalGapMinutes != want {
		t.Errorf("TotalGapMinutes = %d, want %d", after.TotalGapMinutes, want)
	}
}

func TestCancelUnknownIDIsIdempotent(t *testing.T) {
	cfg := testConfig(3)
	before := New(cfg, zerolog.Nop()).Assign([]booking.Reservation{
		flexible("a", 480, 600),
		flexible("b", 700, 820),
	})

	after := Cancel("missing", before, cfg, DefaultMaxChainDepth)

	if !reflect.DeepEqual(after.Assignments, before.Assignments) {
		t.Errorf("assignments changed on unknown id:\nbefore %v\nafter  %v", before.Assignments, after.Assignments)
	}
	if after.TotalGapMinutes != before.TotalGapMinutes {
		t.Errorf("TotalGapMinutes changed on unknown id: %d -> %d", before.TotalGapMinutes, after.TotalGapMinutes)
	}
}

func TestCancelRemovesEveryFragment(t *testing.T) {
	cfg := testConfig(2)
	cfg.AllowSplitting = true

	before := New(cfg, zerolog.Nop()).Assign(append(splitFixture(), flexible("long", 480, 660)))
	after := Cancel("long", before, cfg, DefaultMaxChainDepth)

	for _, p := range after.Assignments {
		if p.ID == "long" {
			t.Fatalf("fragment survived cancellation: %+v", p)
		}
	}
	if len(after.Assignments) != 3 {
		t.Errorf("assignments = %d, want the three pinned fillers", len(after.Assignments))
	}
}
