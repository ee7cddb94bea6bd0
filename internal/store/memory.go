package store

import (
	"context"
	"sort"
	"sync"

	"github.com/lazari03/pyetdoktorin-sub001/internal/models"
)

// MemoryStore is an in-memory Store used by tests. A transaction holds the
// store mutex for its whole body, which gives the same serialization guarantee
// the mongo adapter gets from transaction retry: of two racers, one observes
// the other's committed writes.
type MemoryStore struct {
	mu           sync.Mutex
	appointments map[string]models.Appointment
	slots        map[string]models.SlotLock
	payments     map[string]models.PaymentRecord
	users        map[string]models.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		appointments: make(map[string]models.Appointment),
		slots:        make(map[string]models.SlotLock),
		payments:     make(map[string]models.PaymentRecord),
		users:        make(map[string]models.User),
	}
}

// memTx exposes the raw operations while the store mutex is held.
type memTx struct {
	s *MemoryStore
}

func (s *MemoryStore) InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, memTx{s: s})
}

func (s *MemoryStore) locked(fn func(tx memTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(memTx{s: s})
}

func (t memTx) Appointment(_ context.Context, id string) (*models.Appointment, error) {
	if apt, ok := t.s.appointments[id]; ok {
		cp := apt
		return &cp, nil
	}
	return nil, nil
}

func (t memTx) InsertAppointment(_ context.Context, apt *models.Appointment) error {
	if _, ok := t.s.appointments[apt.ID]; ok {
		return ErrConflict
	}
	t.s.appointments[apt.ID] = *apt
	return nil
}

func (t memTx) UpdateAppointment(_ context.Context, apt *models.Appointment) error {
	t.s.appointments[apt.ID] = *apt
	return nil
}

func (t memTx) SlotLock(_ context.Context, key string) (*models.SlotLock, error) {
	if lock, ok := t.s.slots[key]; ok {
		cp := lock
		return &cp, nil
	}
	return nil, nil
}

func (t memTx) InsertSlotLock(_ context.Context, lock *models.SlotLock) error {
	if _, ok := t.s.slots[lock.ID]; ok {
		return ErrConflict
	}
	t.s.slots[lock.ID] = *lock
	return nil
}

func (t memTx) DeleteSlotLock(_ context.Context, key string) error {
	delete(t.s.slots, key)
	return nil
}

func (t memTx) PaymentRecord(_ context.Context, transactionID string) (*models.PaymentRecord, error) {
	if rec, ok := t.s.payments[transactionID]; ok {
		cp := rec
		return &cp, nil
	}
	return nil, nil
}

func (t memTx) InsertPaymentRecord(_ context.Context, rec *models.PaymentRecord) error {
	if _, ok := t.s.payments[rec.ID]; ok {
		return ErrConflict
	}
	t.s.payments[rec.ID] = *rec
	return nil
}

func (s *MemoryStore) Appointment(ctx context.Context, id string) (apt *models.Appointment, err error) {
	err = s.locked(func(tx memTx) error {
		apt, err = tx.Appointment(ctx, id)
		return err
	})
	return apt, err
}

func (s *MemoryStore) InsertAppointment(ctx context.Context, apt *models.Appointment) error {
	return s.locked(func(tx memTx) error { return tx.InsertAppointment(ctx, apt) })
}

func (s *MemoryStore) UpdateAppointment(ctx context.Context, apt *models.Appointment) error {
	return s.locked(func(tx memTx) error { return tx.UpdateAppointment(ctx, apt) })
}

func (s *MemoryStore) SlotLock(ctx context.Context, key string) (lock *models.SlotLock, err error) {
	err = s.locked(func(tx memTx) error {
		lock, err = tx.SlotLock(ctx, key)
		return err
	})
	return lock, err
}

func (s *MemoryStore) InsertSlotLock(ctx context.Context, lock *models.SlotLock) error {
	return s.locked(func(tx memTx) error { return tx.InsertSlotLock(ctx, lock) })
}

func (s *MemoryStore) DeleteSlotLock(ctx context.Context, key string) error {
	return s.locked(func(tx memTx) error { return tx.DeleteSlotLock(ctx, key) })
}

func (s *MemoryStore) PaymentRecord(ctx context.Context, transactionID string) (rec *models.PaymentRecord, err error) {
	err = s.locked(func(tx memTx) error {
		rec, err = tx.PaymentRecord(ctx, transactionID)
		return err
	})
	return rec, err
}

func (s *MemoryStore) InsertPaymentRecord(ctx context.Context, rec *models.PaymentRecord) error {
	return s.locked(func(tx memTx) error { return tx.InsertPaymentRecord(ctx, rec) })
}

func (s *MemoryStore) ListAppointments(_ context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Appointment
	for _, apt := range s.appointments {
		if filter.PatientID != "" && apt.PatientID != filter.PatientID {
			continue
		}
		if filter.DoctorID != "" && apt.DoctorID != filter.DoctorID {
			continue
		}
		out = append(out, apt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) User(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[id]; ok {
		cp := user
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			cp := user
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) InsertUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; ok {
		return ErrConflict
	}
	s.users[user.ID] = *user
	return nil
}
