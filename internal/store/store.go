// Package store is the storage port for the booking core. Services receive a
// Store and never touch a database handle directly; every multi-document
// invariant runs inside InTx.
package store

import (
	"context"
	"errors"

	"github.com/lazari03/pyetdoktorin-sub001/internal/models"
)

// ErrConflict is returned by inserts that lose a uniqueness race (duplicate
// slot lock or payment record). Callers translate it into their own taxonomy.
var ErrConflict = errors.New("store: document already exists")

// Tx is the read-modify-write surface available inside a transaction. Reads
// return (nil, nil) when the document does not exist.
type Tx interface {
	Appointment(ctx context.Context, id string) (*models.Appointment, error)
	InsertAppointment(ctx context.Context, apt *models.Appointment) error
	UpdateAppointment(ctx context.Context, apt *models.Appointment) error

	SlotLock(ctx context.Context, key string) (*models.SlotLock, error)
	InsertSlotLock(ctx context.Context, lock *models.SlotLock) error
	DeleteSlotLock(ctx context.Context, key string) error

	PaymentRecord(ctx context.Context, transactionID string) (*models.PaymentRecord, error)
	InsertPaymentRecord(ctx context.Context, rec *models.PaymentRecord) error
}

// AppointmentFilter narrows listings. Empty fields match everything. Status
// filtering happens above the store: stored legacy statuses only compare
// correctly after normalization.
type AppointmentFilter struct {
	PatientID string
	DoctorID  string
}

// Store adds non-transactional reads and the transaction runner. InTx executes
// fn atomically: either every write commits or none do, and write-write
// conflicts between concurrent transactions are retried by the adapter so that
// racing transactions serialize.
type Store interface {
	Tx

	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	ListAppointments(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error)

	User(ctx context.Context, id string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	InsertUser(ctx context.Context, user *models.User) error
}
