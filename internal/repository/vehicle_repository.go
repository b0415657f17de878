package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/avelarde/taller-agenda/internal/model"
)

// VehicleRepo persists client vehicles.
type VehicleRepo struct{ DB *sql.DB }

func NewVehicleRepo(db *sql.DB) *VehicleRepo { return &VehicleRepo{DB: db} }

var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrPlateExists     = errors.New("plate already registered")
)

const vehicleColumns = "id, plate, model_id, owner_id, year, color, created_at"

// Create inserts a vehicle owned by the given client and returns its ID.
func (r *VehicleRepo) Create(ctx context.Context, v *model.Vehicle) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO vehicles (plate, model_id, owner_id, year, color) VALUES (?,?,?,?,?)",
		strings.ToUpper(strings.TrimSpace(v.Plate)), v.ModelID, v.OwnerID, v.Year, v.Color)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrPlateExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// GetByID fetches a vehicle by id.
func (r *VehicleRepo) GetByID(ctx context.Context, id uint64) (model.Vehicle, error) {
	var v model.Vehicle
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+vehicleColumns+" FROM vehicles WHERE id=? LIMIT 1",
		id).Scan(&v.ID, &v.Plate, &v.ModelID, &v.OwnerID, &v.Year, &v.Color, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return v, ErrVehicleNotFound
	}
	return v, err
}

// GetByIDForOwner fetches a vehicle and enforces ownership: a vehicle that
// exists but belongs to another client comes back as ErrForbidden.
func (r *VehicleRepo) GetByIDForOwner(ctx context.Context, id, ownerID uint64) (model.Vehicle, error) {
	v, err := r.GetByID(ctx, id)
	if err != nil {
		return v, err
	}
	if v.OwnerID != ownerID {
		return model.Vehicle{}, ErrForbidden
	}
	return v, nil
}

// ListByOwner returns a client's vehicles newest first.
func (r *VehicleRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Vehicle, error) {
	return r.list(ctx, "SELECT "+vehicleColumns+" FROM vehicles WHERE owner_id=? ORDER BY created_at DESC", ownerID)
}

// ListAll returns every vehicle, for the assistant directory.
func (r *VehicleRepo) ListAll(ctx context.Context) ([]model.Vehicle, error) {
	return r.list(ctx, "SELECT "+vehicleColumns+" FROM vehicles ORDER BY created_at DESC")
}

func (r *VehicleRepo) list(ctx context.Context, query string, args ...any) ([]model.Vehicle, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Vehicle
	for rows.Next() {
		var v model.Vehicle
		if err := rows.Scan(&v.ID, &v.Plate, &v.ModelID, &v.OwnerID, &v.Year, &v.Color, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Update rewrites the mutable vehicle fields after an ownership check.
func (r *VehicleRepo) Update(ctx context.Context, v model.Vehicle) error {
	if _, err := r.GetByIDForOwner(ctx, v.ID, v.OwnerID); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE vehicles SET plate=?, model_id=?, year=?, color=? WHERE id=?",
		strings.ToUpper(strings.TrimSpace(v.Plate)), v.ModelID, v.Year, v.Color, v.ID)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrPlateExists
	}
	return err
}

// Delete removes a vehicle unless a request references it, in which case
// it fails with ErrConflict.
func (r *VehicleRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	if _, err := r.GetByIDForOwner(ctx, id, ownerID); err != nil {
		return err
	}
	var n int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM requests WHERE vehicle_id=?", id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	_, err := r.DB.ExecContext(ctx, "DELETE FROM vehicles WHERE id=?", id)
	return err
}
