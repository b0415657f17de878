package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avelarde/taller-agenda/internal/model"
)

// AssignmentRepo persists the services attached to an appointment and
// their technician bindings.
type AssignmentRepo struct{ DB *sql.DB }

func NewAssignmentRepo(db *sql.DB) *AssignmentRepo { return &AssignmentRepo{DB: db} }

var ErrAssignmentNotFound = errors.New("service assignment not found")

const assignmentColumns = "id, appointment_id, service_id, technician_id, status, progress_percent, notes, created_at, updated_at"

func scanAssignment(sc interface{ Scan(...any) error }) (model.ServiceAssignment, error) {
	var a model.ServiceAssignment
	err := sc.Scan(&a.ID, &a.AppointmentID, &a.ServiceID, &a.TechnicianID,
		&a.Status, &a.ProgressPercent, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// CreateBulkTx inserts one pending assignment per (service, technician)
// pair in a single statement and reads the appointment's full assignment
// set back through the same transaction, so the caller can recompute the
// aggregate over exactly what it just wrote.
func (r *AssignmentRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, appointmentID uint64, pairs []model.ServiceAssignment) ([]model.ServiceAssignment, error) {
	if len(pairs) == 0 {
		return r.ListByAppointmentTx(ctx, tx, appointmentID)
	}
	query := "INSERT INTO service_assignments (appointment_id, service_id, technician_id, status, progress_percent) VALUES "
	args := make([]any, 0, len(pairs)*4)
	for i, p := range pairs {
		if i > 0 {
			query += ","
		}
		query += "(?,?,?,?,0)"
		args = append(args, appointmentID, p.ServiceID, p.TechnicianID, model.AssignmentStatusPending)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}
	return r.ListByAppointmentTx(ctx, tx, appointmentID)
}

// GetByID fetches one assignment.
func (r *AssignmentRepo) GetByID(ctx context.Context, id uint64) (model.ServiceAssignment, error) {
	a, err := scanAssignment(r.DB.QueryRowContext(ctx,
		"SELECT "+assignmentColumns+" FROM service_assignments WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return a, ErrAssignmentNotFound
	}
	return a, err
}

// GetByIDForTechnician fetches one assignment and enforces that it is
// bound to the given technician; anything else is ErrForbidden.
func (r *AssignmentRepo) GetByIDForTechnician(ctx context.Context, id, technicianID uint64) (model.ServiceAssignment, error) {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return a, err
	}
	if a.TechnicianID == nil || *a.TechnicianID != technicianID {
		return model.ServiceAssignment{}, ErrForbidden
	}
	return a, nil
}

// GetByIDTx fetches one assignment with a row lock inside the
// progress-posting transaction.
func (r *AssignmentRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.ServiceAssignment, error) {
	a, err := scanAssignment(tx.QueryRowContext(ctx,
		"SELECT "+assignmentColumns+" FROM service_assignments WHERE id=? LIMIT 1 FOR UPDATE", id))
	if err == sql.ErrNoRows {
		return a, ErrAssignmentNotFound
	}
	return a, err
}

// ListByAppointment returns an appointment's assignments oldest first.
func (r *AssignmentRepo) ListByAppointment(ctx context.Context, appointmentID uint64) ([]model.ServiceAssignment, error) {
	return r.list(ctx, r.DB.QueryContext,
		"SELECT "+assignmentColumns+" FROM service_assignments WHERE appointment_id=? ORDER BY id", appointmentID)
}

// ListByAppointmentTx is ListByAppointment inside a transaction, locking
// the sibling rows so the roll-up reads a consistent set.
func (r *AssignmentRepo) ListByAppointmentTx(ctx context.Context, tx *sql.Tx, appointmentID uint64) ([]model.ServiceAssignment, error) {
	return r.list(ctx, tx.QueryContext,
		"SELECT "+assignmentColumns+" FROM service_assignments WHERE appointment_id=? ORDER BY id FOR UPDATE", appointmentID)
}

// ListByTechnician returns the assignments bound to a technician, newest
// appointment first.
func (r *AssignmentRepo) ListByTechnician(ctx context.Context, technicianID uint64) ([]model.ServiceAssignment, error) {
	return r.list(ctx, r.DB.QueryContext,
		"SELECT "+assignmentColumns+" FROM service_assignments WHERE technician_id=? ORDER BY created_at DESC, id DESC", technicianID)
}

type queryFn func(ctx context.Context, query string, args ...any) (*sql.Rows, error)

func (r *AssignmentRepo) list(ctx context.Context, query queryFn, q string, args ...any) ([]model.ServiceAssignment, error) {
	rows, err := query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ServiceAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateTechnician rebinds the assignment to another technician. No
// workload or overlap check is performed; double-booking a technician is
// an accepted staffing decision.
func (r *AssignmentRepo) UpdateTechnician(ctx context.Context, id, technicianID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE service_assignments SET technician_id=?, updated_at=NOW() WHERE id=?", technicianID, id)
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

// UpdateProgressTx writes the assignment's current progress and derived
// status inside the progress-posting transaction.
func (r *AssignmentRepo) UpdateProgressTx(ctx context.Context, tx *sql.Tx, id uint64, percent uint8, status string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE service_assignments SET progress_percent=?, status=?, updated_at=NOW() WHERE id=?",
		percent, status, id)
	return err
}
