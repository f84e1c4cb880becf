/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package booking

import (
	"errors"
	"fmt"
)

var (
	ErrNoResources     = errors.New("at least one resource is required")
	ErrInvalidHours    = errors.New("open time must be before close time")
	ErrInvalidSlot     = errors.New("slot must satisfy 0 <= start < end <= 1440")
	ErrUnknownResource = errors.New("pinned reservation references unknown resource")
)

// Validate rejects malformed configuration before it reaches the
// assigners. The core assumes validated input.
func (c Config) Validate() error {
	if len(c.Resources) == 0 {
		return ErrNoResources
	}
	seen := make(map[string]struct{}, len(c.Resources))
	for _, r := range c.Resources {
		if r.ID == "" {
			return errors.New("resource id must not be empty")
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("duplicate resource id %q", r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	if c.Hours.Open < 0 || c.Hours.Close > 1440 || c.Hours.Open >= c.Hours.Close {
		return fmt.Errorf("%w: open=%d close=%d", ErrInvalidHours, c.Hours.Open, c.Hours.Close)
	}
	if c.Hours.MinSlotDuration <= 0 {
		return errors.New("minimum slot duration must be positive")
	}
	if c.SplittingTolerance < 0 {
		return errors.New("splitting tolerance must not be negative")
	}
	if c.PricePerHour < 0 {
		return errors.New("price per hour must not be negative")
	}
	return nil
}

// ValidateReservations rejects malformed reservation input against a
// validated config.
func ValidateReservations(reservations []Reservation, c Config) error {
	seen := make(map[string]struct{}, len(reservations))
	for _, r := range reservations {
		if r.ID == "" {
			return errors.New("reservation id must not be empty")
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("duplicate reservation id %q", r.ID)
		}
		seen[r.ID] = struct{}{}
		if !r.Slot.Valid() {
			return fmt.Errorf("%w: reservation %q has slot [%d, %d)", ErrInvalidSlot, r.ID, r.Slot.Start, r.Slot.End)
		}
		if r.Slot.Start < c.Hours.Open || r.Slot.End > c.Hours.Close {
			return fmt.Errorf("reservation %q slot [%d, %d) is outside operating hours [%d, %d)",
				r.ID, r.Slot.Start, r.Slot.End, c.Hours.Open, c.Hours.Close)
		}
		switch r.Mode {
		case ModePinned:
			if !c.HasResource(r.PinnedResourceID) {
				return fmt.Errorf("%w: reservation %q wants %q", ErrUnknownResource, r.ID, r.PinnedResourceID)
			}
		case ModeFlexible:
			if r.PinnedResourceID != "" {
				return fmt.Errorf("flexible reservation %q must not carry a pinned resource", r.ID)
			}
		default:
			return fmt.Errorf("reservation %q has unknown mode %q", r.ID, r.Mode)
		}
	}
	return nil
}
