package scheduling

import (
	"testing"
	"time"

	"github.com/avelarde/taller-agenda/internal/model"
)

func TestPlanSlots_WeekdayFilter(t *testing.T) {
	// 2026-03-02 is a Monday; plan a full week keeping Mon and Wed only.
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 6)
	weekdays := map[time.Weekday]bool{time.Monday: true, time.Wednesday: true}
	templates := []SlotTemplate{
		{StartTime: "09:00:00", EndTime: "11:00:00", Capacity: 2},
		{StartTime: "11:00:00", EndTime: "13:00:00", Capacity: 1},
	}

	planned := PlanSlots(from, to, weekdays, templates, nil)
	if len(planned) != 4 {
		t.Fatalf("expected 4 slots (2 days x 2 templates), got %d", len(planned))
	}
	for _, s := range planned {
		wd := s.SlotDate.Weekday()
		if wd != time.Monday && wd != time.Wednesday {
			t.Fatalf("planned slot on unexpected weekday %v", wd)
		}
		if s.Status != model.SlotStatusAvailable {
			t.Fatalf("planned slot must start available, got %q", s.Status)
		}
	}
}

func TestPlanSlots_Idempotent(t *testing.T) {
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 13)
	templates := []SlotTemplate{{StartTime: "09:00:00", EndTime: "11:00:00", Capacity: 1}}

	first := PlanSlots(from, to, nil, templates, nil)
	if len(first) != 14 {
		t.Fatalf("expected 14 slots on first run, got %d", len(first))
	}
	// Re-planning with the first run persisted must create nothing.
	second := PlanSlots(from, to, nil, templates, first)
	if len(second) != 0 {
		t.Fatalf("expected idempotent second run, got %d new slots", len(second))
	}
}

func TestPlanSlots_SkipsExistingTriples(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	existing := []model.Slot{{SlotDate: day, StartTime: "09:00:00", EndTime: "11:00:00", Capacity: 5}}
	templates := []SlotTemplate{
		{StartTime: "09:00:00", EndTime: "11:00:00", Capacity: 2},
		{StartTime: "14:00:00", EndTime: "16:00:00", Capacity: 2},
	}

	planned := PlanSlots(day, day, nil, templates, existing)
	if len(planned) != 1 {
		t.Fatalf("expected only the missing template, got %d slots", len(planned))
	}
	if planned[0].StartTime != "14:00:00" {
		t.Fatalf("expected 14:00 slot, got %q", planned[0].StartTime)
	}
}

func TestPlanSlots_Ordering(t *testing.T) {
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	templates := []SlotTemplate{
		{StartTime: "14:00:00", EndTime: "16:00:00", Capacity: 1},
		{StartTime: "09:00:00", EndTime: "11:00:00", Capacity: 1},
	}
	planned := PlanSlots(from, from.AddDate(0, 0, 1), nil, templates, nil)
	if len(planned) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(planned))
	}
	for i := 1; i < len(planned); i++ {
		prev, cur := planned[i-1], planned[i]
		if cur.SlotDate.Before(prev.SlotDate) {
			t.Fatalf("dates out of order at %d", i)
		}
		if cur.SlotDate.Equal(prev.SlotDate) && cur.StartTime < prev.StartTime {
			t.Fatalf("times out of order at %d", i)
		}
	}
}

func TestValidateTemplates_Overlap(t *testing.T) {
	_, verr := ValidateTemplates([]SlotTemplate{
		{StartTime: "09:00", EndTime: "12:00", Capacity: 1},
		{StartTime: "11:00", EndTime: "13:00", Capacity: 1},
	})
	if verr == nil || verr.Field != "templates" {
		t.Fatalf("expected templates validation error, got %v", verr)
	}
}

func TestValidateTemplates_Empty(t *testing.T) {
	if _, verr := ValidateTemplates(nil); verr == nil {
		t.Fatalf("expected error for empty template list")
	}
}

func TestParseWeekdays(t *testing.T) {
	wd, verr := ParseWeekdays([]int{0, 5})
	if verr != nil {
		t.Fatalf("unexpected error: %v", verr)
	}
	if !wd[time.Monday] || !wd[time.Saturday] {
		t.Fatalf("expected Monday and Saturday, got %v", wd)
	}
	if _, verr := ParseWeekdays([]int{7}); verr == nil {
		t.Fatalf("expected out-of-range weekday to fail")
	}
}
