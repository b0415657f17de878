package scheduling

import (
	"sort"
	"time"

	"github.com/avelarde/taller-agenda/internal/model"
)

// SlotTemplate describes one window to stamp onto each selected date during
// bulk generation. Times must already be normalized ("HH:MM:SS").
type SlotTemplate struct {
	StartTime string
	EndTime   string
	Capacity  uint32
}

// PlanSlots computes the slots a bulk generation run should create: one per
// (date, template) pair for every date in [from,to] whose weekday is in
// weekdays, skipping any (date, start, end) triple already present in
// existing. Skipping makes the operation idempotent; running the same plan
// twice yields nothing the second time. The result is ordered by
// (date, start) so inserts land in calendar order.
func PlanSlots(from, to time.Time, weekdays map[time.Weekday]bool, templates []SlotTemplate, existing []model.Slot) []model.Slot {
	type key struct {
		date  string
		start string
		end   string
	}
	seen := make(map[key]bool, len(existing))
	for _, s := range existing {
		seen[key{s.SlotDate.Format("2006-01-02"), s.StartTime, s.EndTime}] = true
	}

	from = truncateToDay(from)
	to = truncateToDay(to)

	var out []model.Slot
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if len(weekdays) > 0 && !weekdays[d.Weekday()] {
			continue
		}
		for _, t := range templates {
			k := key{d.Format("2006-01-02"), t.StartTime, t.EndTime}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, model.Slot{
				SlotDate:  d,
				StartTime: t.StartTime,
				EndTime:   t.EndTime,
				Capacity:  t.Capacity,
				Status:    model.SlotStatusAvailable,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].SlotDate.Equal(out[j].SlotDate) {
			return out[i].SlotDate.Before(out[j].SlotDate)
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// ValidateTemplates normalizes and checks a template batch. Templates may
// not overlap each other since they land on the same dates together.
func ValidateTemplates(templates []SlotTemplate) ([]SlotTemplate, *ValidationError) {
	if len(templates) == 0 {
		return nil, &ValidationError{Field: "templates", Reason: "at least one template is required"}
	}
	out := make([]SlotTemplate, 0, len(templates))
	for _, t := range templates {
		ns, ne, verr := ValidateSlot(t.StartTime, t.EndTime, int(t.Capacity))
		if verr != nil {
			return nil, verr
		}
		for _, prev := range out {
			if Overlaps(prev.StartTime, prev.EndTime, ns, ne) {
				return nil, &ValidationError{Field: "templates", Reason: "templates overlap each other"}
			}
		}
		out = append(out, SlotTemplate{StartTime: ns, EndTime: ne, Capacity: t.Capacity})
	}
	return out, nil
}

// ParseWeekdays converts API weekday numbers (0=Monday .. 6=Sunday, the
// convention the calendar UI uses) into a lookup set. An empty list means
// every weekday.
func ParseWeekdays(nums []int) (map[time.Weekday]bool, *ValidationError) {
	out := make(map[time.Weekday]bool, len(nums))
	for _, n := range nums {
		if n < 0 || n > 6 {
			return nil, &ValidationError{Field: "weekdays", Reason: "values must be 0 (Monday) through 6 (Sunday)"}
		}
		// time.Weekday starts at Sunday; shift so 0 is Monday.
		out[time.Weekday((n+1)%7)] = true
	}
	return out, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
