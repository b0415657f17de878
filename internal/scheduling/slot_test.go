package scheduling

import (
	"testing"
	"time"

	"github.com/avelarde/taller-agenda/internal/model"
)

func TestNormalizeClock(t *testing.T) {
	got, ok := NormalizeClock("9:00")
	if !ok || got != "09:00:00" {
		t.Fatalf("expected 09:00:00, got %q ok=%v", got, ok)
	}
	got, ok = NormalizeClock("13:30:15")
	if !ok || got != "13:30:15" {
		t.Fatalf("expected 13:30:15, got %q ok=%v", got, ok)
	}
	if _, ok := NormalizeClock("25:00"); ok {
		t.Fatalf("expected 25:00 to be rejected")
	}
	if _, ok := NormalizeClock("lunch"); ok {
		t.Fatalf("expected non-numeric input to be rejected")
	}
}

func TestValidateSlot_OK(t *testing.T) {
	start, end, verr := ValidateSlot("09:00", "13:00", 3)
	if verr != nil {
		t.Fatalf("expected valid slot, got %v", verr)
	}
	if start != "09:00:00" || end != "13:00:00" {
		t.Fatalf("unexpected normalized times %q %q", start, end)
	}
}

func TestValidateSlot_EndNotAfterStart(t *testing.T) {
	_, _, verr := ValidateSlot("13:00", "13:00", 1)
	if verr == nil {
		t.Fatalf("expected validation error")
	}
	if verr.Field != "end_time" {
		t.Fatalf("expected end_time field, got %q", verr.Field)
	}
}

func TestValidateSlot_BadCapacity(t *testing.T) {
	_, _, verr := ValidateSlot("09:00", "13:00", 0)
	if verr == nil || verr.Field != "capacity" {
		t.Fatalf("expected capacity validation error, got %v", verr)
	}
}

func TestOverlaps_HalfOpen(t *testing.T) {
	// Touching ranges share a boundary but do not overlap.
	if Overlaps("09:00:00", "11:00:00", "11:00:00", "13:00:00") {
		t.Fatalf("touching ranges must not overlap")
	}
	if !Overlaps("09:00:00", "11:00:00", "10:59:59", "13:00:00") {
		t.Fatalf("intersecting ranges must overlap")
	}
	if !Overlaps("09:00:00", "13:00:00", "10:00:00", "11:00:00") {
		t.Fatalf("contained range must overlap")
	}
}

func TestFindOverlap(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	existing := []model.Slot{
		{ID: 1, SlotDate: day, StartTime: "09:00:00", EndTime: "11:00:00"},
		{ID: 2, SlotDate: day, StartTime: "11:00:00", EndTime: "13:00:00"},
	}
	if s := FindOverlap(existing, "13:00:00", "15:00:00"); s != nil {
		t.Fatalf("expected no overlap, got slot %d", s.ID)
	}
	s := FindOverlap(existing, "10:00:00", "12:00:00")
	if s == nil {
		t.Fatalf("expected an overlap")
	}
	if s.ID != 1 {
		t.Fatalf("expected first overlapping slot, got %d", s.ID)
	}
}

// Overlapping an existing window is a validation failure, not a conflict,
// so slot creation rejects it on the same path as end <= start.
func TestValidateNoOverlap(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	existing := []model.Slot{
		{ID: 1, SlotDate: day, StartTime: "09:00:00", EndTime: "11:00:00"},
	}
	if verr := ValidateNoOverlap(existing, "11:00:00", "13:00:00"); verr != nil {
		t.Fatalf("touching window must pass, got %v", verr)
	}
	verr := ValidateNoOverlap(existing, "10:00:00", "12:00:00")
	if verr == nil {
		t.Fatalf("expected validation error for overlapping window")
	}
	if verr.Field != "start_time" {
		t.Fatalf("expected start_time field, got %q", verr.Field)
	}
}

func TestIsAvailable(t *testing.T) {
	s := model.Slot{Status: model.SlotStatusAvailable, Capacity: 2, Occupancy: 1}
	if !IsAvailable(s) {
		t.Fatalf("slot with room must be available")
	}
	s.Occupancy = 2
	if IsAvailable(s) {
		t.Fatalf("full slot must not be available")
	}
	s = model.Slot{Status: model.SlotStatusBlocked, Capacity: 2}
	if IsAvailable(s) {
		t.Fatalf("blocked slot must not be available regardless of occupancy")
	}
}

func TestStatusFor(t *testing.T) {
	if got := StatusFor(1, 2); got != model.SlotStatusAvailable {
		t.Fatalf("expected available, got %q", got)
	}
	if got := StatusFor(2, 2); got != model.SlotStatusBooked {
		t.Fatalf("expected booked, got %q", got)
	}
}
