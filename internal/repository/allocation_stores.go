package repository

import (
	"context"
	"database/sql"

	"github.com/avelarde/taller-agenda/internal/model"
	"github.com/avelarde/taller-agenda/internal/scheduling"
)

// TxSlotStore adapts SlotRepo to scheduling.SlotStore with every call bound
// to one transaction, so the allocator's reserve/release and the
// appointment writes commit or roll back together.
type TxSlotStore struct {
	tx   *sql.Tx
	repo *SlotRepo
}

// TxAppointmentStore is the matching scheduling.AppointmentStore adapter.
type TxAppointmentStore struct {
	tx   *sql.Tx
	repo *AppointmentRepo
}

// NewAllocationStores binds both repositories to the transaction.
func NewAllocationStores(tx *sql.Tx, slots *SlotRepo, appts *AppointmentRepo) (*TxSlotStore, *TxAppointmentStore) {
	return &TxSlotStore{tx: tx, repo: slots}, &TxAppointmentStore{tx: tx, repo: appts}
}

func (s *TxSlotStore) Reserve(ctx context.Context, slotID uint64) (model.Slot, error) {
	slot, err := s.repo.ReserveTx(ctx, s.tx, slotID)
	if err == ErrConflict {
		return model.Slot{}, scheduling.ErrSlotUnavailable
	}
	return slot, err
}

func (s *TxSlotStore) Release(ctx context.Context, slotID uint64) error {
	return s.repo.ReleaseTx(ctx, s.tx, slotID)
}

func (s *TxAppointmentStore) HasActive(ctx context.Context, requestID uint64) (bool, error) {
	return s.repo.HasActiveTx(ctx, s.tx, requestID)
}

func (s *TxAppointmentStore) Create(ctx context.Context, appt *model.Appointment) error {
	return s.repo.CreateTx(ctx, s.tx, appt)
}

func (s *TxAppointmentStore) ClearSlot(ctx context.Context, appointmentID uint64) error {
	return s.repo.ClearSlotTx(ctx, s.tx, appointmentID)
}

func (s *TxAppointmentStore) UpdateStatus(ctx context.Context, appointmentID uint64, status string) error {
	return s.repo.UpdateStatusTx(ctx, s.tx, appointmentID, status)
}
