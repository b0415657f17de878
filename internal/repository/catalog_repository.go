package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avelarde/taller-agenda/internal/model"
)

// CatalogRepo reads the static brand/model/service catalogs. The API never
// writes these tables; they are seeded by operations staff.
type CatalogRepo struct{ DB *sql.DB }

func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{DB: db} }

var ErrServiceNotFound = errors.New("catalog service not found")

// ListBrands returns every brand ordered by name.
func (r *CatalogRepo) ListBrands(ctx context.Context) ([]model.Brand, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name FROM brands ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Brand
	for rows.Next() {
		var b model.Brand
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListModelsByBrand returns the models of one brand ordered by name.
func (r *CatalogRepo) ListModelsByBrand(ctx context.Context, brandID uint64) ([]model.VehicleModel, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, brand_id, name FROM vehicle_models WHERE brand_id=? ORDER BY name", brandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.VehicleModel
	for rows.Next() {
		var m model.VehicleModel
		if err := rows.Scan(&m.ID, &m.BrandID, &m.Name); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListActiveServices returns the services currently offered by the
// workshop.
func (r *CatalogRepo) ListActiveServices(ctx context.Context) ([]model.CatalogService, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, description, base_cost_cents, estimated_minutes, is_active FROM catalog_services WHERE is_active=1 ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CatalogService
	for rows.Next() {
		var s model.CatalogService
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.BaseCostCents, &s.EstimatedMinutes, &s.IsActive); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetServiceByID fetches one catalog service regardless of its active flag
// so historical assignments still resolve.
func (r *CatalogRepo) GetServiceByID(ctx context.Context, id uint64) (model.CatalogService, error) {
	var s model.CatalogService
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, description, base_cost_cents, estimated_minutes, is_active FROM catalog_services WHERE id=? LIMIT 1",
		id).Scan(&s.ID, &s.Name, &s.Description, &s.BaseCostCents, &s.EstimatedMinutes, &s.IsActive)
	if err == sql.ErrNoRows {
		return s, ErrServiceNotFound
	}
	return s, err
}
