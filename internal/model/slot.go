package model

import "time"

// Slot status values. "available" and "booked" are derived from occupancy
// versus capacity; "blocked" is set by staff and wins over both.
const (
	SlotStatusAvailable = "available"
	SlotStatusBooked    = "booked"
	SlotStatusBlocked   = "blocked"
)

// Slot is a bookable time window on the shared workshop calendar (row in
// `slots`). Occupancy counts live appointments bound to the slot and never
// exceeds capacity. Start/end times are zero-padded "HH:MM:SS" strings as
// returned by the MySQL TIME type; zero-padding keeps lexicographic
// comparison equivalent to chronological comparison.
//
// Fields:
//  ID        – primary key identifier.
//  SlotDate  – calendar date of the window.
//  StartTime – inclusive start of the window.
//  EndTime   – exclusive end of the window.
//  Capacity  – declared capacity, at least 1.
//  Occupancy – current number of allocations, 0..Capacity.
//  Status    – one of the SlotStatus* constants.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Slot struct {
	ID        uint64    // slots.id
	SlotDate  time.Time // slots.slot_date (DATE)
	StartTime string    // slots.start_time (TIME)
	EndTime   string    // slots.end_time (TIME)
	Capacity  uint32    // slots.capacity
	Occupancy uint32    // slots.occupancy
	Status    string    // slots.status
	CreatedAt time.Time // slots.created_at
	UpdatedAt time.Time // slots.updated_at
}
