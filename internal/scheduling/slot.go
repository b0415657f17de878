package scheduling

import (
	"time"

	"github.com/avelarde/taller-agenda/internal/model"
)

// clockLayout is the canonical wall-clock form used for slot bounds. MySQL
// TIME columns come back in this shape, and zero-padded strings compare
// lexicographically in chronological order.
const clockLayout = "15:04:05"

// NormalizeClock parses a wall-clock string in "HH:MM" or "HH:MM:SS" form
// and returns it zero-padded as "HH:MM:SS". The bool reports whether the
// input was a valid clock time.
func NormalizeClock(s string) (string, bool) {
	if t, err := time.Parse(clockLayout, s); err == nil {
		return t.Format(clockLayout), true
	}
	if t, err := time.Parse("15:04", s); err == nil {
		return t.Format(clockLayout), true
	}
	return "", false
}

// ValidateSlot checks the shape of a new slot before it touches the
// calendar. It returns normalized start/end times on success and a
// *ValidationError naming the offending field otherwise.
func ValidateSlot(start, end string, capacity int) (string, string, *ValidationError) {
	ns, ok := NormalizeClock(start)
	if !ok {
		return "", "", &ValidationError{Field: "start_time", Reason: "must be a clock time like 09:00"}
	}
	ne, ok := NormalizeClock(end)
	if !ok {
		return "", "", &ValidationError{Field: "end_time", Reason: "must be a clock time like 13:00"}
	}
	if ne <= ns {
		return "", "", &ValidationError{Field: "end_time", Reason: "must be after start_time"}
	}
	if capacity < 1 {
		return "", "", &ValidationError{Field: "capacity", Reason: "must be at least 1"}
	}
	return ns, ne, nil
}

// Overlaps reports whether the half-open ranges [aStart,aEnd) and
// [bStart,bEnd) intersect. Slots that merely touch do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && aEnd > bStart
}

// FindOverlap returns the first slot in existing whose range overlaps
// [start,end), or nil. Callers pass the slots already on the target date.
func FindOverlap(existing []model.Slot, start, end string) *model.Slot {
	for i := range existing {
		if Overlaps(existing[i].StartTime, existing[i].EndTime, start, end) {
			return &existing[i]
		}
	}
	return nil
}

// ValidateNoOverlap classes an overlapping window as malformed input, the
// same family as end <= start: the caller asked for a range the day's
// calendar cannot hold.
func ValidateNoOverlap(existing []model.Slot, start, end string) *ValidationError {
	if FindOverlap(existing, start, end) != nil {
		return &ValidationError{Field: "start_time", Reason: ErrSlotOverlap.Error()}
	}
	return nil
}

// IsAvailable is the allocation predicate: the slot must be in the
// available state with room left. Blocked slots are excluded regardless of
// occupancy.
func IsAvailable(s model.Slot) bool {
	return s.Status == model.SlotStatusAvailable && s.Occupancy < s.Capacity
}

// StatusFor recomputes a slot's derived status from its counters. Blocked
// is staff-set and is never derived here; unblocking goes through this
// function so a full slot comes back as booked, not available.
func StatusFor(occupancy, capacity uint32) string {
	if occupancy >= capacity {
		return model.SlotStatusBooked
	}
	return model.SlotStatusAvailable
}
