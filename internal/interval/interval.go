/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package interval provides the time geometry primitives the
// schedulers are built on. All values are integer minutes since
// midnight and all slots are half-open: [Start, End).
package interval

// Slot is a half-open time interval in minutes since midnight.
// Valid slots satisfy 0 <= Start < End <= 1440.
type Slot struct {
	Start int
	End   int
}

// Duration returns the slot length in minutes.
func (s Slot) Duration() int {
	return s.End - s.Start
}

// Valid reports whether the slot lies within a single day and has
// positive length.
func (s Slot) Valid() bool {
	return s.Start >= 0 && s.Start < s.End && s.End <= 1440
}

// Overlaps reports whether the two slots share any positive-length
// intersection. Touching endpoints do not overlap.
func Overlaps(a, b Slot) bool {
	return a.Start < b.End && b.Start < a.End
}

// Adjacent reports whether one slot ends exactly where the other
// begins.
func Adjacent(a, b Slot) bool {
	return a.End == b.Start || b.End == a.Start
}

// Merge combines two slots into their covering interval. It is only
// meaningful when the slots overlap or are adjacent.
func Merge(a, b Slot) Slot {
	out := a
	if b.Start < out.Start {
		out.Start = b.Start
	}
	if b.End > out.End {
		out.End = b.End
	}
	return out
}

// Fits reports whether slot lies entirely inside free.
func Fits(slot, free Slot) bool {
	return slot.Start >= free.Start && slot.End <= free.End
}

// FreeSlots returns the ordered maximal gaps within [open, close) not
// covered by any booked slot. booked must be sorted by start; bookings
// may touch but never overlap. Zero bookings yield the whole window,
// full coverage yields nothing.
func FreeSlots(booked []Slot, open, close int) []Slot {
	var free []Slot
	cursor := open
	for _, b := range booked {
		if b.End <= cursor {
			continue
		}
		if b.Start > cursor {
			end := b.Start
			if end > close {
				end = close
			}
			if end > cursor {
				free = append(free, Slot{Start: cursor, End: end})
			}
		}
		cursor = b.End
		if cursor >= close {
			return free
		}
	}
	if cursor < close {
		free = append(free, Slot{Start: cursor, End: close})
	}
	return free
}

// LongestRun returns the length of the longest maximal run of mutually
// adjacent or overlapping slots, or 0 when booked is empty. booked
// must be sorted by start.
func LongestRun(booked []Slot) int {
	longest := 0
	var run Slot
	active := false
	for _, b := range booked {
		if !active {
			run = b
			active = true
			continue
		}
		if Overlaps(run, b) || Adjacent(run, b) {
			run = Merge(run, b)
			continue
		}
		if d := run.Duration(); d > longest {
			longest = d
		}
		run = b
	}
	if active {
		if d := run.Duration(); d > longest {
			longest = d
		}
	}
	return longest
}

// BookedMinutes sums the durations of the given slots.
func BookedMinutes(booked []Slot) int {
	total := 0
	for _, b := range booked {
		total += b.Duration()
	}
	return total
}
