package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avelarde/taller-agenda/internal/model"
)

// AppointmentRepo persists appointments. Creation and slot release run
// inside the allocation transaction; reads and staff status updates run on
// the plain connection.
type AppointmentRepo struct{ DB *sql.DB }

func NewAppointmentRepo(db *sql.DB) *AppointmentRepo { return &AppointmentRepo{DB: db} }

var ErrAppointmentNotFound = errors.New("appointment not found")

const appointmentColumns = "id, request_id, slot_id, slot_date, start_time, notes, global_progress, global_status, created_at, updated_at"

func scanAppointment(sc interface{ Scan(...any) error }) (model.Appointment, error) {
	var a model.Appointment
	err := sc.Scan(&a.ID, &a.RequestID, &a.SlotID, &a.SlotDate, &a.StartTime,
		&a.Notes, &a.GlobalProgress, &a.GlobalStatus, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// CreateTx inserts the appointment inside the allocation transaction and
// fills in its generated ID.
func (r *AppointmentRepo) CreateTx(ctx context.Context, tx *sql.Tx, a *model.Appointment) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO appointments (request_id, slot_id, slot_date, start_time, notes, global_progress, global_status) VALUES (?,?,?,?,?,0,?)",
		a.RequestID, a.SlotID, a.SlotDate.Format("2006-01-02"), a.StartTime, a.Notes, a.GlobalStatus)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// HasActiveTx reports whether the request already has a live appointment.
// It locks matching rows so a concurrent allocation for the same request
// serializes behind this transaction instead of double-booking it.
func (r *AppointmentRepo) HasActiveTx(ctx context.Context, tx *sql.Tx, requestID uint64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx,
		"SELECT 1 FROM appointments WHERE request_id=? AND global_status IN (?,?,?) LIMIT 1 FOR UPDATE",
		requestID,
		model.AppointmentStatusPending, model.AppointmentStatusConfirmed, model.AppointmentStatusInProgress,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByID fetches an appointment by id.
func (r *AppointmentRepo) GetByID(ctx context.Context, id uint64) (model.Appointment, error) {
	a, err := scanAppointment(r.DB.QueryRowContext(ctx,
		"SELECT "+appointmentColumns+" FROM appointments WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return a, ErrAppointmentNotFound
	}
	return a, err
}

// GetByIDTx fetches an appointment inside a transaction with a row lock,
// for cancel and aggregate recomputation paths.
func (r *AppointmentRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Appointment, error) {
	a, err := scanAppointment(tx.QueryRowContext(ctx,
		"SELECT "+appointmentColumns+" FROM appointments WHERE id=? LIMIT 1 FOR UPDATE", id))
	if err == sql.ErrNoRows {
		return a, ErrAppointmentNotFound
	}
	return a, err
}

// GetByIDForClient fetches an appointment only when the underlying request
// belongs to the client.
func (r *AppointmentRepo) GetByIDForClient(ctx context.Context, id, clientID uint64) (model.Appointment, error) {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return a, err
	}
	var owner uint64
	err = r.DB.QueryRowContext(ctx,
		"SELECT client_id FROM requests WHERE id=? LIMIT 1", a.RequestID).Scan(&owner)
	if err != nil {
		return model.Appointment{}, err
	}
	if owner != clientID {
		return model.Appointment{}, ErrForbidden
	}
	return a, nil
}

// ListAll returns every appointment, soonest slot first.
func (r *AppointmentRepo) ListAll(ctx context.Context) ([]model.Appointment, error) {
	return r.list(ctx,
		"SELECT "+appointmentColumns+" FROM appointments ORDER BY slot_date DESC, start_time DESC")
}

// ListByClient returns the appointments attached to a client's requests.
func (r *AppointmentRepo) ListByClient(ctx context.Context, clientID uint64) ([]model.Appointment, error) {
	return r.list(ctx,
		`SELECT a.id, a.request_id, a.slot_id, a.slot_date, a.start_time, a.notes,
		        a.global_progress, a.global_status, a.created_at, a.updated_at
		   FROM appointments a JOIN requests s ON s.id = a.request_id
		  WHERE s.client_id=? ORDER BY a.slot_date DESC, a.start_time DESC`, clientID)
}

func (r *AppointmentRepo) list(ctx context.Context, query string, args ...any) ([]model.Appointment, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ClearSlotTx nulls the slot reference inside the release transaction.
func (r *AppointmentRepo) ClearSlotTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE appointments SET slot_id=NULL, updated_at=NOW() WHERE id=?", id)
	return err
}

// UpdateStatusTx sets the global status inside a transaction.
func (r *AppointmentRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE appointments SET global_status=?, updated_at=NOW() WHERE id=?", status, id)
	return err
}

// UpdateAggregateTx writes the rolled-up progress and status computed from
// the child assignments. Runs inside the progress-posting transaction so
// the aggregate is consistent before the request returns.
func (r *AppointmentRepo) UpdateAggregateTx(ctx context.Context, tx *sql.Tx, id uint64, progress uint8, status string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE appointments SET global_progress=?, global_status=?, updated_at=NOW() WHERE id=?",
		progress, status, id)
	return err
}
