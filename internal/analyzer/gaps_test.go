/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package analyzer

import (
	"math"
	"testing"

	"github.com/friendsincode/courtplan/internal/booking"
	"github.com/friendsincode/courtplan/internal/interval"
)

var (
	testResources = []booking.Resource{
		{ID: "court-1"}, {ID: "court-2"}, {ID: "court-3"},
	}
	testHours = booking.OperatingHours{Open: 480, Close: 1320, MinSlotDuration: 30}
)

func placed(id, court string, start, end int) booking.Assignment {
	return booking.Assignment{
		Reservation: booking.Reservation{ID: id, Slot: interval.Slot{Start: start, End: end}},
		ResourceID:  court,
	}
}

func TestAnalyzeEmptyDay(t *testing.T) {
	report := Analyze(nil, testResources, testHours)

	if len(report.Gaps) != 3 {
		t.Fatalf("empty day produced %d gaps, want one per court", len(report.Gaps))
	}
	if report.TotalGapMinutes != 3*840 {
		t.Errorf("TotalGapMinutes = %d, want %d", report.TotalGapMinutes, 3*840)
	}
	for _, g := range report.Gaps {
		if g.Duration != 840 || g.Stranded {
			t.Errorf("gap on %s = %+v, want full non-stranded window", g.ResourceID, g)
		}
	}
}

func TestAnalyzePackedDayScoresZero(t *testing.T) {
	var assignments []booking.Assignment
	for _, r := range testResources {
		assignments = append(assignments, placed("full-"+r.ID, r.ID, 480, 1320))
	}

	report := Analyze(assignments, testResources, testHours)
	if len(report.Gaps) != 0 || report.TotalGapMinutes != 0 {
		t.Fatalf("packed day still has gaps: %+v", report)
	}
	if report.Fragmentation != 0 {
		t.Errorf("Fragmentation = %v, want 0", report.Fragmentation)
	}
}

func TestAnalyzeStrandedGap(t *testing.T) {
	assignments := []booking.Assignment{
		placed("a", "court-1", 480, 700),
		placed("b", "court-1", 720, 1320), // leaves 20 min, below MinSlotDuration
		placed("c", "court-2", 480, 1320),
		placed("d", "court-3", 480, 1320),
	}

	report := Analyze(assignments, testResources, testHours)
	if len(report.Gaps) != 1 {
		t.Fatalf("got %d gaps, want 1", len(report.Gaps))
	}
	gap := report.Gaps[0]
	if !gap.Stranded || gap.Duration != 20 || gap.Slot.Start != 700 {
		t.Errorf("gap = %+v, want stranded [700, 720)", gap)
	}

	// gapRatio = 20/2520, strandedFraction = 1, segmentPenalty = 1/30.
	want := 0.4*(20.0/2520.0) + 0.4*1.0 + 0.2*(1.0/30.0)
	if math.Abs(report.Fragmentation-want) > 1e-9 {
		t.Errorf("Fragmentation = %v, want %v", report.Fragmentation, want)
	}
}

func TestGapConservationUnderRelocation(t *testing.T) {
	assignments := []booking.Assignment{
		placed("a", "court-1", 480, 600),
		placed("b", "court-1", 660, 780),
		placed("c", "court-2", 900, 1020),
	}
	before := TotalGapMinutes(assignments, testResources, testHours)

	moved := make([]booking.Assignment, len(assignments))
	copy(moved, assignments)
	moved[1].ResourceID = "court-3"

	after := TotalGapMinutes(moved, testResources, testHours)
	if before != after {
		t.Errorf("total gap changed under relocation: %d -> %d", before, after)
	}
	if want := 3*840 - 360; before != want {
		t.Errorf("TotalGapMinutes = %d, want %d", before, want)
	}
}
