package scheduling

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/avelarde/taller-agenda/internal/model"
)

// memStore is an in-memory SlotStore + AppointmentStore whose Reserve is a
// mutex-guarded compare-and-swap, mirroring the atomic UPDATE the SQL
// implementation performs. It lets the allocator invariants run under real
// goroutine contention without a database.
type memStore struct {
	mu     sync.Mutex
	slots  map[uint64]*model.Slot
	appts  map[uint64]*model.Appointment
	nextID uint64
}

func newMemStore(slots ...model.Slot) *memStore {
	st := &memStore{slots: map[uint64]*model.Slot{}, appts: map[uint64]*model.Appointment{}}
	for i := range slots {
		s := slots[i]
		st.slots[s.ID] = &s
	}
	return st
}

func (st *memStore) Reserve(_ context.Context, slotID uint64) (model.Slot, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.slots[slotID]
	if !ok {
		return model.Slot{}, ErrSlotUnavailable
	}
	if !IsAvailable(*s) {
		return model.Slot{}, ErrSlotUnavailable
	}
	s.Occupancy++
	s.Status = StatusFor(s.Occupancy, s.Capacity)
	return *s, nil
}

func (st *memStore) Release(_ context.Context, slotID uint64) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.slots[slotID]
	if !ok {
		return nil
	}
	if s.Occupancy > 0 {
		s.Occupancy--
	}
	if s.Status != model.SlotStatusBlocked {
		s.Status = StatusFor(s.Occupancy, s.Capacity)
	}
	return nil
}

func (st *memStore) HasActive(_ context.Context, requestID uint64) (bool, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, a := range st.appts {
		if a.RequestID != requestID {
			continue
		}
		for _, live := range model.ActiveAppointmentStatuses {
			if a.GlobalStatus == live {
				return true, nil
			}
		}
	}
	return false, nil
}

func (st *memStore) Create(_ context.Context, appt *model.Appointment) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.nextID++
	appt.ID = st.nextID
	cp := *appt
	st.appts[appt.ID] = &cp
	return nil
}

func (st *memStore) ClearSlot(_ context.Context, appointmentID uint64) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if a, ok := st.appts[appointmentID]; ok {
		a.SlotID = nil
	}
	return nil
}

func (st *memStore) UpdateStatus(_ context.Context, appointmentID uint64, status string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if a, ok := st.appts[appointmentID]; ok {
		a.GlobalStatus = status
	}
	return nil
}

func (st *memStore) slot(id uint64) model.Slot {
	st.mu.Lock()
	defer st.mu.Unlock()
	return *st.slots[id]
}

func testSlot(id uint64, capacity uint32) model.Slot {
	return model.Slot{
		ID:        id,
		SlotDate:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00:00",
		EndTime:   "11:00:00",
		Capacity:  capacity,
		Status:    model.SlotStatusAvailable,
	}
}

func TestAllocate_FillsSlotToCapacity(t *testing.T) {
	st := newMemStore(testSlot(1, 2))
	alloc := NewAllocator(st, st)
	ctx := context.Background()

	a1, err := alloc.Allocate(ctx, 10, 1, "")
	if err != nil {
		t.Fatalf("first allocate failed: %v", err)
	}
	if a1.GlobalStatus != model.AppointmentStatusPending {
		t.Fatalf("new appointment must be pending, got %q", a1.GlobalStatus)
	}
	if a1.StartTime != "09:00:00" {
		t.Fatalf("start time not mirrored, got %q", a1.StartTime)
	}

	if _, err := alloc.Allocate(ctx, 11, 1, ""); err != nil {
		t.Fatalf("second allocate failed: %v", err)
	}
	s := st.slot(1)
	if s.Occupancy != 2 || s.Status != model.SlotStatusBooked {
		t.Fatalf("expected occupancy 2 / booked, got %d / %q", s.Occupancy, s.Status)
	}

	if _, err := alloc.Allocate(ctx, 12, 1, ""); err != ErrSlotUnavailable {
		t.Fatalf("third allocate must fail with ErrSlotUnavailable, got %v", err)
	}
}

func TestAllocate_RejectsSecondActiveAppointment(t *testing.T) {
	st := newMemStore(testSlot(1, 5), testSlot(2, 5))
	alloc := NewAllocator(st, st)
	ctx := context.Background()

	if _, err := alloc.Allocate(ctx, 10, 1, ""); err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if _, err := alloc.Allocate(ctx, 10, 2, ""); err != ErrActiveAppointment {
		t.Fatalf("expected ErrActiveAppointment, got %v", err)
	}
}

func TestAllocate_ConcurrentCapacityOne(t *testing.T) {
	st := newMemStore(testSlot(1, 1))
	alloc := NewAllocator(st, st)

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = alloc.Allocate(context.Background(), uint64(100+i), 1, "")
		}(i)
	}
	close(start)
	wg.Wait()

	wins, conflicts := 0, 0
	for _, err := range errs {
		switch err {
		case nil:
			wins++
		case ErrSlotUnavailable:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("exactly one caller must win, got %d", wins)
	}
	if conflicts != callers-1 {
		t.Fatalf("expected %d conflicts, got %d", callers-1, conflicts)
	}
	s := st.slot(1)
	if s.Occupancy != 1 {
		t.Fatalf("occupancy must be 1, got %d", s.Occupancy)
	}
}

func TestReleaseRestoresAvailability(t *testing.T) {
	st := newMemStore(testSlot(1, 1))
	alloc := NewAllocator(st, st)
	ctx := context.Background()

	before := IsAvailable(st.slot(1))
	appt, err := alloc.Allocate(ctx, 10, 1, "")
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if IsAvailable(st.slot(1)) {
		t.Fatalf("capacity-1 slot must be unavailable after allocation")
	}

	if err := alloc.Release(ctx, &appt); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if IsAvailable(st.slot(1)) != before {
		t.Fatalf("release must restore pre-allocation availability")
	}
	if appt.SlotID != nil {
		t.Fatalf("release must clear the slot reference")
	}

	// A second release is a no-op: occupancy stays at zero.
	if err := alloc.Release(ctx, &appt); err != nil {
		t.Fatalf("double release errored: %v", err)
	}
	if got := st.slot(1).Occupancy; got != 0 {
		t.Fatalf("double release must not decrement twice, occupancy=%d", got)
	}
}

func TestCancel_PendingOnly(t *testing.T) {
	st := newMemStore(testSlot(1, 1))
	alloc := NewAllocator(st, st)
	ctx := context.Background()

	appt, err := alloc.Allocate(ctx, 10, 1, "")
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}

	confirmed := appt
	confirmed.GlobalStatus = model.AppointmentStatusConfirmed
	if err := alloc.Cancel(ctx, &confirmed); err != ErrNotCancellable {
		t.Fatalf("cancelling a confirmed appointment must conflict, got %v", err)
	}

	if err := alloc.Cancel(ctx, &appt); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if appt.GlobalStatus != model.AppointmentStatusCancelled {
		t.Fatalf("expected cancelled, got %q", appt.GlobalStatus)
	}
	s := st.slot(1)
	if s.Occupancy != 0 || s.Status != model.SlotStatusAvailable {
		t.Fatalf("cancel must free the slot, got occupancy=%d status=%q", s.Occupancy, s.Status)
	}
}
