// Package queue defines message payloads exchanged over the message broker.
package queue

// AppointmentConfirmedEvent is published when staff confirms an appointment.
// It carries enough context for downstream consumers to log or notify the
// client without querying the primary database.
type AppointmentConfirmedEvent struct {
	AppointmentID uint64   `json:"appointment_id"`
	RequestID     uint64   `json:"request_id"`
	ClientID      uint64   `json:"client_id"`
	ClientName    string   `json:"client_name"`
	VehiclePlate  string   `json:"vehicle_plate"`
	SlotDate      string   `json:"slot_date"`
	StartTime     string   `json:"start_time"`
	Services      []string `json:"services"`
	ConfirmedAt   string   `json:"confirmed_at"`
}
