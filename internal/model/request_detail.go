package model

import "time"

// RequestDetail is a triage note an assistant attaches to a service
// request (row in `request_details`): observations from inspecting the
// vehicle plus an optional cost estimate.
//
// Fields:
//  ID           – primary key identifier.
//  RequestID    – request the note belongs to.
//  Observations – free-text inspection notes.
//  CostCents    – estimated cost in cents, when quoted.
//  CreatedAt    – timestamp of creation.
type RequestDetail struct {
	ID           uint64    // request_details.id
	RequestID    uint64    // request_details.request_id
	Observations string    // request_details.observations
	CostCents    *uint64   // request_details.cost_cents (nullable)
	CreatedAt    time.Time // request_details.created_at
}
