package model

import "time"

// ServiceAssignment status values, derived from the latest progress event:
// 100% forces completed, anything above zero forces in_progress.
const (
	AssignmentStatusPending    = "pending"
	AssignmentStatusInProgress = "in_progress"
	AssignmentStatusCompleted  = "completed"
)

// ServiceAssignment attaches one catalog service to an appointment,
// optionally bound to a technician (row in `service_assignments`).
//
// Fields:
//  ID              – primary key identifier.
//  AppointmentID   – owning appointment.
//  ServiceID       – catalog service being performed.
//  TechnicianID    – assigned TALLER user; null until assigned.
//  Status          – one of the AssignmentStatus* constants.
//  ProgressPercent – 0..100, from the latest progress event.
//  Notes           – free-text observations.
//  CreatedAt       – timestamp of creation.
//  UpdatedAt       – timestamp of last update.
type ServiceAssignment struct {
	ID              uint64    // service_assignments.id
	AppointmentID   uint64    // service_assignments.appointment_id
	ServiceID       uint64    // service_assignments.service_id
	TechnicianID    *uint64   // service_assignments.technician_id (nullable)
	Status          string    // service_assignments.status
	ProgressPercent uint8     // service_assignments.progress_percent
	Notes           *string   // service_assignments.notes (nullable)
	CreatedAt       time.Time // service_assignments.created_at
	UpdatedAt       time.Time // service_assignments.updated_at
}

// ProgressEvent is an immutable report appended against a service
// assignment (row in `progress_events`). Events are totally ordered by
// (CreatedAt, ID); the latest event defines the assignment's current
// progress and derived status.
//
// Fields:
//  ID           – primary key identifier, breaks timestamp ties.
//  AssignmentID – service assignment being reported on.
//  Percent      – reported progress, 0..100.
//  Comment      – free-text comment.
//  EvidenceURL  – link to a photo or document, optional.
//  CreatedAt    – timestamp of the report.
type ProgressEvent struct {
	ID           uint64    // progress_events.id
	AssignmentID uint64    // progress_events.assignment_id
	Percent      uint8     // progress_events.percent
	Comment      string    // progress_events.comment
	EvidenceURL  *string   // progress_events.evidence_url (nullable)
	CreatedAt    time.Time // progress_events.created_at
}
