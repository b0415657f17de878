package model

import "time"

// Request status values. A request is created open by the client and
// advanced only by assistants; it never tracks scheduling state itself,
// that lives on the appointment.
const (
	RequestStatusOpen    = "open"
	RequestStatusTriaged = "triaged"
	RequestStatusClosed  = "closed"
)

// Request is a client-initiated service request against one vehicle (row in
// `requests`). A request has at most one live appointment at any time; that
// rule is enforced by the allocator, not by the schema.
//
// Fields:
//  ID          – primary key identifier.
//  VehicleID   – vehicle the work is requested for.
//  ClientID    – client user that opened the request.
//  Description – free-text problem description.
//  ExternalRef – external reference tag (insurer claim, fleet order, ...).
//  Status      – one of the RequestStatus* constants.
//  CreatedAt   – timestamp of creation.
type Request struct {
	ID          uint64    // requests.id
	VehicleID   uint64    // requests.vehicle_id
	ClientID    uint64    // requests.client_id
	Description string    // requests.description
	ExternalRef *string   // requests.external_ref (nullable)
	Status      string    // requests.status
	CreatedAt   time.Time // requests.created_at
}
