package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avelarde/taller-agenda/internal/model"
)

// RequestRepo persists client service requests.
type RequestRepo struct{ DB *sql.DB }

func NewRequestRepo(db *sql.DB) *RequestRepo { return &RequestRepo{DB: db} }

var ErrRequestNotFound = errors.New("request not found")

const requestColumns = "id, vehicle_id, client_id, description, external_ref, status, created_at"

// Create inserts an open request and fills in its generated ID.
func (r *RequestRepo) Create(ctx context.Context, req *model.Request) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO requests (vehicle_id, client_id, description, external_ref, status) VALUES (?,?,?,?,?)",
		req.VehicleID, req.ClientID, req.Description, req.ExternalRef, model.RequestStatusOpen)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	req.ID = uint64(id)
	req.Status = model.RequestStatusOpen
	return nil
}

// GetByID fetches a request by id.
func (r *RequestRepo) GetByID(ctx context.Context, id uint64) (model.Request, error) {
	var req model.Request
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+requestColumns+" FROM requests WHERE id=? LIMIT 1",
		id).Scan(&req.ID, &req.VehicleID, &req.ClientID, &req.Description, &req.ExternalRef, &req.Status, &req.CreatedAt)
	if err == sql.ErrNoRows {
		return req, ErrRequestNotFound
	}
	return req, err
}

// GetByIDForClient fetches a request and enforces client ownership.
func (r *RequestRepo) GetByIDForClient(ctx context.Context, id, clientID uint64) (model.Request, error) {
	req, err := r.GetByID(ctx, id)
	if err != nil {
		return req, err
	}
	if req.ClientID != clientID {
		return model.Request{}, ErrForbidden
	}
	return req, nil
}

// ListByClient returns a client's requests newest first.
func (r *RequestRepo) ListByClient(ctx context.Context, clientID uint64) ([]model.Request, error) {
	return r.list(ctx, "SELECT "+requestColumns+" FROM requests WHERE client_id=? ORDER BY created_at DESC", clientID)
}

// ListAll returns every request newest first, for the assistant triage view.
func (r *RequestRepo) ListAll(ctx context.Context) ([]model.Request, error) {
	return r.list(ctx, "SELECT "+requestColumns+" FROM requests ORDER BY created_at DESC")
}

func (r *RequestRepo) list(ctx context.Context, query string, args ...any) ([]model.Request, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Request
	for rows.Next() {
		var req model.Request
		if err := rows.Scan(&req.ID, &req.VehicleID, &req.ClientID, &req.Description, &req.ExternalRef, &req.Status, &req.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// UpdateStatus advances the request status. Status words are validated by
// the handler; this just writes.
func (r *RequestRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE requests SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// CreateDetail attaches a triage note to a request and reads back the
// generated ID and timestamp.
func (r *RequestRepo) CreateDetail(ctx context.Context, d *model.RequestDetail) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO request_details (request_id, observations, cost_cents) VALUES (?,?,?)",
		d.RequestID, d.Observations, d.CostCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at FROM request_details WHERE id=?", d.ID).Scan(&d.CreatedAt)
}

// ListDetails returns a request's triage notes, newest first.
func (r *RequestRepo) ListDetails(ctx context.Context, requestID uint64) ([]model.RequestDetail, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, request_id, observations, cost_cents, created_at FROM request_details WHERE request_id=? ORDER BY id DESC",
		requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RequestDetail
	for rows.Next() {
		var d model.RequestDetail
		if err := rows.Scan(&d.ID, &d.RequestID, &d.Observations, &d.CostCents, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
