// Package scheduling contains the slot calendar and appointment allocation
// core: slot validation and overlap math, bulk calendar generation, the
// capacity allocator and the appointment/service lifecycle rules. It has no
// database dependency; persistence is supplied through the store interfaces
// in allocator.go. Errors split into two families so handlers can tell
// malformed input (400) apart from business-rule conflicts (409).
package scheduling

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input along with the offending field.
// It always maps to a 400 response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Conflict errors: the request was well-formed but the current state of the
// calendar forbids it. Callers should re-fetch and retry if appropriate.
var (
	// ErrSlotUnavailable is returned when allocating a slot that is blocked,
	// at capacity, or lost to a concurrent allocation.
	ErrSlotUnavailable = errors.New("slot is not available")

	// ErrActiveAppointment is returned when the request already has an
	// appointment in a live state (pending, confirmed or in progress).
	ErrActiveAppointment = errors.New("request already has an active appointment")

	// ErrSlotOccupied is returned when blocking or deleting a slot that
	// still has appointments allocated against it.
	ErrSlotOccupied = errors.New("slot has active reservations")

	// ErrSlotOverlap is returned when a new slot's time range overlaps an
	// existing slot on the same date.
	ErrSlotOverlap = errors.New("slot overlaps an existing slot on this date")

	// ErrNotCancellable is returned when cancelling an appointment that has
	// already been confirmed or started.
	ErrNotCancellable = errors.New("only pending appointments can be cancelled")

	// ErrInvalidTransition is returned for a status change the appointment
	// state machine does not permit.
	ErrInvalidTransition = errors.New("invalid status transition")
)
