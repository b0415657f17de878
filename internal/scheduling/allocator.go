package scheduling

import (
	"context"

	"github.com/avelarde/taller-agenda/internal/model"
)

// SlotStore is the persistence contract the allocator needs from the slot
// calendar. Both methods run inside the caller's transaction when backed by
// SQL.
//
// Reserve must be atomic: it claims one unit of capacity if and only if the
// slot is available with room left, flipping the slot to booked when the
// claim fills it, and returns ErrSlotUnavailable otherwise. Two concurrent
// reservations of a capacity-1 slot must never both succeed. Release
// returns one unit, flooring occupancy at zero, and recomputes the derived
// status unless the slot is blocked.
type SlotStore interface {
	Reserve(ctx context.Context, slotID uint64) (model.Slot, error)
	Release(ctx context.Context, slotID uint64) error
}

// AppointmentStore is the persistence contract for appointments themselves.
type AppointmentStore interface {
	// HasActive reports whether the request already has an appointment in
	// a live state (pending, confirmed or in progress).
	HasActive(ctx context.Context, requestID uint64) (bool, error)
	// Create inserts the appointment and fills in its generated ID.
	Create(ctx context.Context, appt *model.Appointment) error
	// ClearSlot nulls the appointment's slot reference.
	ClearSlot(ctx context.Context, appointmentID uint64) error
	// UpdateStatus sets the appointment's global status.
	UpdateStatus(ctx context.Context, appointmentID uint64, status string) error
}

// Allocator binds service requests to calendar slots while holding the two
// core invariants: a request carries at most one active appointment, and a
// slot's occupancy never exceeds its capacity. The stores are expected to
// share one transaction so an allocation is all-or-nothing.
type Allocator struct {
	Slots        SlotStore
	Appointments AppointmentStore
}

// NewAllocator wires an allocator over the given stores.
func NewAllocator(slots SlotStore, appts AppointmentStore) *Allocator {
	return &Allocator{Slots: slots, Appointments: appts}
}

// Allocate books the slot for the request and creates the pending
// appointment, mirroring the slot's date and start time into the
// appointment's display fields. It fails with ErrActiveAppointment when the
// request is already scheduled and with ErrSlotUnavailable when the slot
// cannot take another allocation.
func (a *Allocator) Allocate(ctx context.Context, requestID, slotID uint64, notes string) (model.Appointment, error) {
	active, err := a.Appointments.HasActive(ctx, requestID)
	if err != nil {
		return model.Appointment{}, err
	}
	if active {
		return model.Appointment{}, ErrActiveAppointment
	}

	slot, err := a.Slots.Reserve(ctx, slotID)
	if err != nil {
		return model.Appointment{}, err
	}

	appt := model.Appointment{
		RequestID:    requestID,
		SlotID:       &slotID,
		SlotDate:     slot.SlotDate,
		StartTime:    slot.StartTime,
		Notes:        notes,
		GlobalStatus: model.AppointmentStatusPending,
	}
	if err := a.Appointments.Create(ctx, &appt); err != nil {
		return model.Appointment{}, err
	}
	return appt, nil
}

// Release gives the appointment's slot capacity back and clears the slot
// reference. It is a no-op for appointments that hold no slot, so calling
// it twice cannot decrement twice.
func (a *Allocator) Release(ctx context.Context, appt *model.Appointment) error {
	if appt.SlotID == nil {
		return nil
	}
	if err := a.Slots.Release(ctx, *appt.SlotID); err != nil {
		return err
	}
	if err := a.Appointments.ClearSlot(ctx, appt.ID); err != nil {
		return err
	}
	appt.SlotID = nil
	return nil
}

// Cancel cancels a pending appointment, releasing its slot first. Any other
// state fails with ErrNotCancellable; confirmed and started work must be
// resolved by staff, not cancelled away.
func (a *Allocator) Cancel(ctx context.Context, appt *model.Appointment) error {
	if appt.GlobalStatus != model.AppointmentStatusPending {
		return ErrNotCancellable
	}
	if err := a.Release(ctx, appt); err != nil {
		return err
	}
	if err := a.Appointments.UpdateStatus(ctx, appt.ID, model.AppointmentStatusCancelled); err != nil {
		return err
	}
	appt.GlobalStatus = model.AppointmentStatusCancelled
	return nil
}
