package repository

import (
	"context"
	"database/sql"

	"github.com/avelarde/taller-agenda/internal/model"
)

// ProgressRepo appends and reads the immutable progress log of a service
// assignment. There is no update or delete; corrections are new events.
type ProgressRepo struct{ DB *sql.DB }

func NewProgressRepo(db *sql.DB) *ProgressRepo { return &ProgressRepo{DB: db} }

const progressColumns = "id, assignment_id, percent, comment, evidence_url, created_at"

// CreateTx appends one event inside the progress-posting transaction and
// fills in its generated ID.
func (r *ProgressRepo) CreateTx(ctx context.Context, tx *sql.Tx, e *model.ProgressEvent) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO progress_events (assignment_id, percent, comment, evidence_url) VALUES (?,?,?,?)",
		e.AssignmentID, e.Percent, e.Comment, e.EvidenceURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// ListByAssignment returns the full event log, newest first. Ties on the
// timestamp are broken by the insertion id so "latest" is well defined.
func (r *ProgressRepo) ListByAssignment(ctx context.Context, assignmentID uint64) ([]model.ProgressEvent, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+progressColumns+" FROM progress_events WHERE assignment_id=? ORDER BY created_at DESC, id DESC",
		assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ProgressEvent
	for rows.Next() {
		var e model.ProgressEvent
		if err := rows.Scan(&e.ID, &e.AssignmentID, &e.Percent, &e.Comment, &e.EvidenceURL, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
