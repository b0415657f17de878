package scheduling

import (
	"math"

	"github.com/avelarde/taller-agenda/internal/model"
)

// CanTransition reports whether staff may move an appointment from one
// global status to another. Only single forward steps are allowed:
// pending -> confirmed -> in_progress. Completion is derived from the
// child assignments and cancellation goes through Allocator.Cancel so the
// slot is released; neither may be set directly.
func CanTransition(from, to string) bool {
	switch from {
	case model.AppointmentStatusPending:
		return to == model.AppointmentStatusConfirmed
	case model.AppointmentStatusConfirmed:
		return to == model.AppointmentStatusInProgress
	default:
		return false
	}
}

// ValidatePercent checks a reported progress value.
func ValidatePercent(percent int) *ValidationError {
	if percent < 0 || percent > 100 {
		return &ValidationError{Field: "percent", Reason: "must be between 0 and 100"}
	}
	return nil
}

// DeriveAssignmentStatus applies the progress rule to a service
// assignment: 100% forces completed, anything above zero forces
// in_progress, zero leaves the current status untouched.
func DeriveAssignmentStatus(current string, percent uint8) string {
	switch {
	case percent == 100:
		return model.AssignmentStatusCompleted
	case percent > 0:
		return model.AssignmentStatusInProgress
	default:
		return current
	}
}

// RollUp computes the appointment-level aggregate from its service
// assignments: the arithmetic mean of progress (0 when there are no
// assignments) and whether every assignment reports completed. The second
// value is false for an empty set so an appointment without work never
// auto-completes.
func RollUp(assignments []model.ServiceAssignment) (uint8, bool) {
	if len(assignments) == 0 {
		return 0, false
	}
	sum := 0
	done := true
	for _, a := range assignments {
		sum += int(a.ProgressPercent)
		if a.Status != model.AssignmentStatusCompleted {
			done = false
		}
	}
	mean := math.Round(float64(sum) / float64(len(assignments)))
	return uint8(mean), done
}

// NextGlobalStatus folds the roll-up result into the appointment's global
// status. Completion is only the derived forward step out of in_progress:
// an appointment that staff have not confirmed and started keeps its
// status even when every assignment already reports done, and cancelled
// appointments are never revived. Every other move is staff-driven.
func NextGlobalStatus(current string, allCompleted bool) string {
	if current == model.AppointmentStatusInProgress && allCompleted {
		return model.AppointmentStatusCompleted
	}
	return current
}
