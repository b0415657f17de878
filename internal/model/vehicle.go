package model

import "time"

// Vehicle represents a row in the `vehicles` table. Every vehicle belongs
// to exactly one client user; plates are unique across the workshop.
//
// Fields:
//  ID        – primary key identifier.
//  Plate     – registration plate, unique.
//  ModelID   – reference into vehicle_models (nullable).
//  OwnerID   – client user that owns the vehicle.
//  Year      – manufacture year (nullable).
//  Color     – paint color (nullable).
//  CreatedAt – timestamp of creation.
type Vehicle struct {
	ID        uint64    // vehicles.id
	Plate     string    // vehicles.plate
	ModelID   *uint64   // vehicles.model_id (nullable)
	OwnerID   uint64    // vehicles.owner_id
	Year      *int      // vehicles.year (nullable)
	Color     *string   // vehicles.color (nullable)
	CreatedAt time.Time // vehicles.created_at
}
