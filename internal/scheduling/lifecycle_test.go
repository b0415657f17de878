package scheduling

import (
	"testing"

	"github.com/avelarde/taller-agenda/internal/model"
)

func TestCanTransition(t *testing.T) {
	allowed := [][2]string{
		{model.AppointmentStatusPending, model.AppointmentStatusConfirmed},
		{model.AppointmentStatusConfirmed, model.AppointmentStatusInProgress},
	}
	for _, tr := range allowed {
		if !CanTransition(tr[0], tr[1]) {
			t.Fatalf("expected %s -> %s to be allowed", tr[0], tr[1])
		}
	}
	denied := [][2]string{
		{model.AppointmentStatusPending, model.AppointmentStatusInProgress},
		{model.AppointmentStatusPending, model.AppointmentStatusCompleted},
		{model.AppointmentStatusConfirmed, model.AppointmentStatusCancelled},
		{model.AppointmentStatusInProgress, model.AppointmentStatusCompleted},
		{model.AppointmentStatusCompleted, model.AppointmentStatusInProgress},
		{model.AppointmentStatusCancelled, model.AppointmentStatusPending},
	}
	for _, tr := range denied {
		if CanTransition(tr[0], tr[1]) {
			t.Fatalf("expected %s -> %s to be denied", tr[0], tr[1])
		}
	}
}

func TestValidatePercent(t *testing.T) {
	if verr := ValidatePercent(0); verr != nil {
		t.Fatalf("0 must be valid: %v", verr)
	}
	if verr := ValidatePercent(100); verr != nil {
		t.Fatalf("100 must be valid: %v", verr)
	}
	if verr := ValidatePercent(-1); verr == nil || verr.Field != "percent" {
		t.Fatalf("expected percent validation error, got %v", verr)
	}
	if verr := ValidatePercent(101); verr == nil {
		t.Fatalf("expected 101 to be rejected")
	}
}

func TestDeriveAssignmentStatus(t *testing.T) {
	if got := DeriveAssignmentStatus(model.AssignmentStatusPending, 100); got != model.AssignmentStatusCompleted {
		t.Fatalf("100%% must complete, got %q", got)
	}
	if got := DeriveAssignmentStatus(model.AssignmentStatusPending, 40); got != model.AssignmentStatusInProgress {
		t.Fatalf("positive progress must start, got %q", got)
	}
	if got := DeriveAssignmentStatus(model.AssignmentStatusPending, 0); got != model.AssignmentStatusPending {
		t.Fatalf("zero progress must keep current status, got %q", got)
	}
	// A completed assignment re-reported at 0 stays as reported history says.
	if got := DeriveAssignmentStatus(model.AssignmentStatusCompleted, 0); got != model.AssignmentStatusCompleted {
		t.Fatalf("zero progress must not reset completed, got %q", got)
	}
}

func TestRollUp_Mean(t *testing.T) {
	assignments := []model.ServiceAssignment{
		{ProgressPercent: 100, Status: model.AssignmentStatusCompleted},
		{ProgressPercent: 50, Status: model.AssignmentStatusInProgress},
	}
	progress, done := RollUp(assignments)
	if progress != 75 {
		t.Fatalf("expected mean 75, got %d", progress)
	}
	if done {
		t.Fatalf("one assignment still in progress, must not be done")
	}
}

func TestRollUp_AllCompleted(t *testing.T) {
	assignments := []model.ServiceAssignment{
		{ProgressPercent: 100, Status: model.AssignmentStatusCompleted},
		{ProgressPercent: 100, Status: model.AssignmentStatusCompleted},
	}
	progress, done := RollUp(assignments)
	if progress != 100 || !done {
		t.Fatalf("expected 100/done, got %d/%v", progress, done)
	}
}

func TestRollUp_Empty(t *testing.T) {
	progress, done := RollUp(nil)
	if progress != 0 {
		t.Fatalf("empty set must roll up to 0, got %d", progress)
	}
	if done {
		t.Fatalf("empty set must never report completion")
	}
}

// Attaching a fresh pending assignment changes the set the mean runs over:
// a half-done appointment that gains a 0% sibling drops to a quarter, so
// the aggregate must be recomputed whenever the set grows, not only on
// progress posts.
func TestRollUp_GrowingSetMovesMean(t *testing.T) {
	set := []model.ServiceAssignment{
		{ProgressPercent: 50, Status: model.AssignmentStatusInProgress},
	}
	if mean, _ := RollUp(set); mean != 50 {
		t.Fatalf("expected mean 50, got %d", mean)
	}
	set = append(set, model.ServiceAssignment{Status: model.AssignmentStatusPending})
	mean, done := RollUp(set)
	if mean != 25 {
		t.Fatalf("expected mean 25 after adding a pending assignment, got %d", mean)
	}
	if done {
		t.Fatalf("set with a pending assignment must not report completion")
	}
}

func TestNextGlobalStatus(t *testing.T) {
	if got := NextGlobalStatus(model.AppointmentStatusInProgress, true); got != model.AppointmentStatusCompleted {
		t.Fatalf("expected derived completion, got %q", got)
	}
	if got := NextGlobalStatus(model.AppointmentStatusConfirmed, false); got != model.AppointmentStatusConfirmed {
		t.Fatalf("expected status unchanged, got %q", got)
	}
	if got := NextGlobalStatus(model.AppointmentStatusCancelled, true); got != model.AppointmentStatusCancelled {
		t.Fatalf("cancelled must never be revived, got %q", got)
	}
}

// Completion is derived only from in_progress; an appointment whose
// assignments all report 100% before staff confirm and start it keeps its
// place in the chain.
func TestNextGlobalStatus_SkipsNoStates(t *testing.T) {
	for _, current := range []string{model.AppointmentStatusPending, model.AppointmentStatusConfirmed} {
		if got := NextGlobalStatus(current, true); got != current {
			t.Fatalf("%s appointment must not auto-complete, got %q", current, got)
		}
	}
}
