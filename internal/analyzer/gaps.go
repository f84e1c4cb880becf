/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package analyzer derives per-court gaps and the fragmentation score
// from a set of assignments.
package analyzer

import (
	"github.com/friendsincode/courtplan/internal/booking"
)

// Report carries the gap metrics for one assignment state.
type Report struct {
	Gaps            []booking.Gap
	TotalGapMinutes int
	Fragmentation   float64
}

// segmentCap is the heuristic gap-count ceiling per court used by the
// fragmentation blend.
const segmentCap = 10

// Analyze computes every court's unbooked intervals, the total gap
// minutes and the fragmentation score in [0, 1]. A perfectly packed
// day scores exactly 0 regardless of court count.
func Analyze(assignments []booking.Assignment, resources []booking.Resource, hours booking.OperatingHours) Report {
	var report Report
	strandedMinutes := 0

	for _, r := range resources {
		for _, free := range booking.FreeSlotsOn(assignments, r.ID, hours) {
			d := free.Duration()
			gap := booking.Gap{
				ResourceID: r.ID,
				Slot:       free,
				Duration:   d,
				Stranded:   d < hours.MinSlotDuration,
			}
			report.Gaps = append(report.Gaps, gap)
			report.TotalGapMinutes += d
			if gap.Stranded {
				strandedMinutes += d
			}
		}
	}

	if len(report.Gaps) == 0 {
		return report
	}

	operating := len(resources) * hours.Window()
	gapRatio := float64(report.TotalGapMinutes) / float64(operating)
	strandedFraction := float64(strandedMinutes) / float64(report.TotalGapMinutes)
	segmentPenalty := float64(len(report.Gaps)) / float64(segmentCap*len(resources))
	if segmentPenalty > 1 {
		segmentPenalty = 1
	}

	report.Fragmentation = 0.4*gapRatio + 0.4*strandedFraction + 0.2*segmentPenalty
	return report
}

// TotalGapMinutes recomputes only the scalar gap total; used by the
// relocation passes that trial many states.
func TotalGapMinutes(assignments []booking.Assignment, resources []booking.Resource, hours booking.OperatingHours) int {
	total := 0
	for _, r := range resources {
		for _, free := range booking.FreeSlotsOn(assignments, r.ID, hours) {
			total += free.Duration()
		}
	}
	return total
}
