package model

// Static catalogs. Rows are seeded by operations staff and treated as
// read-only by the API; the core only stores their ids as opaque references.

// Brand is a vehicle make (row in `brands`).
type Brand struct {
	ID   uint64 // brands.id
	Name string // brands.name
}

// VehicleModel is a model belonging to a brand (row in `vehicle_models`).
type VehicleModel struct {
	ID      uint64 // vehicle_models.id
	BrandID uint64 // vehicle_models.brand_id
	Name    string // vehicle_models.name
}

// CatalogService is a service the workshop offers (row in
// `catalog_services`). Inactive services stay referenced by historical
// assignments but are hidden from listings.
type CatalogService struct {
	ID               uint64  // catalog_services.id
	Name             string  // catalog_services.name
	Description      *string // catalog_services.description (nullable)
	BaseCostCents    uint64  // catalog_services.base_cost_cents
	EstimatedMinutes uint32  // catalog_services.estimated_minutes
	IsActive         bool    // catalog_services.is_active
}
