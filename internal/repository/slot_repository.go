package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/avelarde/taller-agenda/internal/model"
)

// SlotRepo persists the shared slot calendar. Occupancy mutations go
// through ReserveTx/ReleaseTx only; both are single UPDATE statements so
// the occupancy <= capacity invariant can never be broken by interleaving
// readers and writers.
type SlotRepo struct{ DB *sql.DB }

func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{DB: db} }

var ErrSlotNotFound = errors.New("slot not found")

const slotColumns = "id, slot_date, start_time, end_time, capacity, occupancy, status, created_at, updated_at"

func scanSlot(sc interface{ Scan(...any) error }) (model.Slot, error) {
	var s model.Slot
	err := sc.Scan(&s.ID, &s.SlotDate, &s.StartTime, &s.EndTime,
		&s.Capacity, &s.Occupancy, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// GetByID fetches a slot by id.
func (r *SlotRepo) GetByID(ctx context.Context, id uint64) (model.Slot, error) {
	s, err := scanSlot(r.DB.QueryRowContext(ctx,
		"SELECT "+slotColumns+" FROM slots WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return s, ErrSlotNotFound
	}
	return s, err
}

// SlotFilter narrows Query. Zero values mean "no filter". Times in DateFrom
// and DateTo are compared on the date only.
type SlotFilter struct {
	Date       *time.Time
	DateFrom   *time.Time
	DateTo     *time.Time
	Status     string
	OnlyFuture bool
}

// Query returns slots matching the filter ordered by (date, start time)
// ascending. Callers depend on this order: the client-facing "next
// available slot" view simply takes the head of the list.
func (r *SlotRepo) Query(ctx context.Context, f SlotFilter) ([]model.Slot, error) {
	query := "SELECT " + slotColumns + " FROM slots WHERE 1=1"
	var args []any
	if f.Date != nil {
		query += " AND slot_date=?"
		args = append(args, f.Date.Format("2006-01-02"))
	}
	if f.DateFrom != nil {
		query += " AND slot_date>=?"
		args = append(args, f.DateFrom.Format("2006-01-02"))
	}
	if f.DateTo != nil {
		query += " AND slot_date<=?"
		args = append(args, f.DateTo.Format("2006-01-02"))
	}
	if f.Status != "" {
		query += " AND status=?"
		args = append(args, f.Status)
	}
	if f.OnlyFuture {
		query += " AND slot_date>=CURDATE()"
	}
	query += " ORDER BY slot_date, start_time"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListByDateTx returns the slots on one date inside the transaction,
// locking the rows so a concurrent create on the same date cannot slip an
// overlapping slot in between the check and the insert.
func (r *SlotRepo) ListByDateTx(ctx context.Context, tx *sql.Tx, date time.Time) ([]model.Slot, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT "+slotColumns+" FROM slots WHERE slot_date=? ORDER BY start_time FOR UPDATE",
		date.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateTx inserts one slot within the transaction and fills in its ID.
func (r *SlotRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Slot) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO slots (slot_date, start_time, end_time, capacity, occupancy, status) VALUES (?,?,?,?,0,?)",
		s.SlotDate.Format("2006-01-02"), s.StartTime, s.EndTime, s.Capacity, model.SlotStatusAvailable)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	s.Status = model.SlotStatusAvailable
	return nil
}

// CreateBulkTx inserts a batch of planned slots in a single statement.
// Passing an empty slice has no effect and returns nil.
func (r *SlotRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, slots []model.Slot) error {
	if len(slots) == 0 {
		return nil
	}
	query := "INSERT INTO slots (slot_date, start_time, end_time, capacity, occupancy, status) VALUES "
	args := make([]any, 0, len(slots)*5)
	for i, s := range slots {
		if i > 0 {
			query += ","
		}
		query += "(?,?,?,?,0,?)"
		args = append(args, s.SlotDate.Format("2006-01-02"), s.StartTime, s.EndTime, s.Capacity, model.SlotStatusAvailable)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ReserveTx claims one unit of the slot's capacity. The guard in the WHERE
// clause is the compare-and-swap: when two transactions race for the last
// unit, the second sees zero affected rows and fails without ever reading
// a stale counter. MySQL applies SET clauses left to right, so the status
// expression already sees the incremented occupancy.
func (r *SlotRepo) ReserveTx(ctx context.Context, tx *sql.Tx, slotID uint64) (model.Slot, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE slots
		    SET occupancy = occupancy + 1,
		        status = IF(occupancy >= capacity, ?, ?),
		        updated_at = NOW()
		  WHERE id = ? AND status = ? AND occupancy < capacity`,
		model.SlotStatusBooked, model.SlotStatusAvailable,
		slotID, model.SlotStatusAvailable)
	if err != nil {
		return model.Slot{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Slot{}, err
	}
	if n == 0 {
		return model.Slot{}, ErrConflict
	}
	s, err := scanSlot(tx.QueryRowContext(ctx,
		"SELECT "+slotColumns+" FROM slots WHERE id=? LIMIT 1", slotID))
	if err != nil {
		return model.Slot{}, err
	}
	return s, nil
}

// ReleaseTx returns one unit of capacity, flooring occupancy at zero. A
// blocked slot keeps its blocked status; otherwise the status is recomputed
// from the decremented counter.
func (r *SlotRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, slotID uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE slots
		    SET occupancy = IF(occupancy > 0, occupancy - 1, 0),
		        status = IF(status = ?, status, IF(occupancy >= capacity, ?, ?)),
		        updated_at = NOW()
		  WHERE id = ?`,
		model.SlotStatusBlocked, model.SlotStatusBooked, model.SlotStatusAvailable,
		slotID)
	return err
}

// Block excludes a slot from allocation. A slot with live allocations
// cannot be blocked; that fails with ErrConflict.
func (r *SlotRepo) Block(ctx context.Context, id uint64) (model.Slot, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE slots SET status=?, updated_at=NOW() WHERE id=? AND occupancy=0 AND status<>?",
		model.SlotStatusBlocked, id, model.SlotStatusBlocked)
	if err != nil {
		return model.Slot{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Slot{}, err
	}
	if n == 0 {
		s, err := r.GetByID(ctx, id)
		if err != nil {
			return model.Slot{}, err
		}
		if s.Status == model.SlotStatusBlocked {
			return s, nil // already blocked, idempotent
		}
		return model.Slot{}, ErrConflict
	}
	return r.GetByID(ctx, id)
}

// Unblock returns a blocked slot to circulation. The resulting status is
// recomputed from occupancy versus capacity, not set to available blindly.
func (r *SlotRepo) Unblock(ctx context.Context, id uint64) (model.Slot, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return model.Slot{}, err
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE slots SET status=IF(occupancy >= capacity, ?, ?), updated_at=NOW() WHERE id=?",
		model.SlotStatusBooked, model.SlotStatusAvailable, id)
	if err != nil {
		return model.Slot{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a slot that has never been allocated or has been fully
// released. Occupied slots fail with ErrConflict.
func (r *SlotRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM slots WHERE id=? AND occupancy=0", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}
