package model

import "time"

// Appointment status values. The forward chain is pending -> confirmed ->
// in_progress -> completed; cancelled is reachable only from pending.
// completed is never set directly, it is derived when every service
// assignment reports completion.
const (
	AppointmentStatusPending    = "pending"
	AppointmentStatusConfirmed  = "confirmed"
	AppointmentStatusInProgress = "in_progress"
	AppointmentStatusCompleted  = "completed"
	AppointmentStatusCancelled  = "cancelled"
)

// ActiveAppointmentStatuses are the states in which an appointment keeps
// its request busy and its slot occupied.
var ActiveAppointmentStatuses = []string{
	AppointmentStatusPending,
	AppointmentStatusConfirmed,
	AppointmentStatusInProgress,
}

// Appointment binds a request to at most one slot (row in `appointments`).
// SlotDate and StartTime are mirrored from the slot at bind time so the
// display fields survive a later slot release.
//
// Fields:
//  ID             – primary key identifier.
//  RequestID      – request being scheduled.
//  SlotID         – bound slot; null after release/cancellation.
//  SlotDate       – date mirrored from the slot at bind time.
//  StartTime      – start time mirrored from the slot at bind time.
//  Notes          – free-text staff notes.
//  GlobalProgress – 0..100, mean of child assignment progress.
//  GlobalStatus   – one of the AppointmentStatus* constants.
//  CreatedAt      – timestamp of creation.
//  UpdatedAt      – timestamp of last update.
type Appointment struct {
	ID             uint64    // appointments.id
	RequestID      uint64    // appointments.request_id
	SlotID         *uint64   // appointments.slot_id (nullable)
	SlotDate       time.Time // appointments.slot_date
	StartTime      string    // appointments.start_time
	Notes          string    // appointments.notes
	GlobalProgress uint8     // appointments.global_progress
	GlobalStatus   string    // appointments.global_status
	CreatedAt      time.Time // appointments.created_at
	UpdatedAt      time.Time // appointments.updated_at
}
