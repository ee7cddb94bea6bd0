package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lazari03/pyetdoktorin-sub001/internal/apperrors"
	"github.com/lazari03/pyetdoktorin-sub001/internal/models"
	"github.com/lazari03/pyetdoktorin-sub001/internal/store"
)

// acceptedAppointment seeds an accepted appointment owned by patient p1.
func acceptedAppointment(t *testing.T, st *store.MemoryStore) *models.Appointment {
	t.Helper()
	apt := bookTest(t, st)
	updated, err := NewStatusService(st, zap.NewNop()).UpdateStatus(context.Background(), apt.ID, "accepted", doctorActor)
	require.NoError(t, err)
	return updated
}

func TestMarkPaymentProcessing(t *testing.T) {
	ctx := context.Background()

	t.Run("Patient Starts Own Payment", func(t *testing.T) {
		st := store.NewMemoryStore()
		apt := acceptedAppointment(t, st)
		svc := NewPaymentService(st, zap.NewNop())

		require.NoError(t, svc.MarkPaymentProcessing(ctx, apt.ID, "", patientActor))

		got, err := st.Appointment(ctx, apt.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentProcessing, got.PaymentStatus)
		assert.Equal(t, "paddle", got.PaymentProvider)
		assert.NotNil(t, got.PaymentStarted)
	})

	t.Run("Other Patient Forbidden", func(t *testing.T) {
		st := store.NewMemoryStore()
		apt := acceptedAppointment(t, st)
		svc := NewPaymentService(st, zap.NewNop())

		err := svc.MarkPaymentProcessing(ctx, apt.ID, "", models.Actor{ID: "p2", Role: models.RolePatient})
		assert.Equal(t, "PAYMENT_NOT_ALLOWED", apperrors.CodeOf(err))
	})

	t.Run("Pending Appointment Not Payable", func(t *testing.T) {
		st := store.NewMemoryStore()
		apt := bookTest(t, st)
		svc := NewPaymentService(st, zap.NewNop())

		err := svc.MarkPaymentProcessing(ctx, apt.ID, "", patientActor)
		assert.Equal(t, "PAYMENT_NOT_ALLOWED", apperrors.CodeOf(err))
	})

	t.Run("Already Paid Is Noop", func(t *testing.T) {
		st := store.NewMemoryStore()
		apt := acceptedAppointment(t, st)
		svc := NewPaymentService(st, zap.NewNop())

		_, err := svc.MarkPaid(ctx, apt.ID, "txn_a", "")
		require.NoError(t, err)
		require.NoError(t, svc.MarkPaymentProcessing(ctx, apt.ID, "", patientActor))

		got, err := st.Appointment(ctx, apt.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentPaid, got.PaymentStatus, "paid state must not regress to processing")
	})

	t.Run("Missing Appointment", func(t *testing.T) {
		svc := NewPaymentService(store.NewMemoryStore(), zap.NewNop())
		err := svc.MarkPaymentProcessing(ctx, "nope", "", patientActor)
		assert.Equal(t, "NOT_FOUND", apperrors.CodeOf(err))
	})
}

func TestMarkPaid(t *testing.T) {
	ctx := context.Background()

	t.Run("First Confirmation Credits", func(t *testing.T) {
		st := store.NewMemoryStore()
		apt := acceptedAppointment(t, st)
		svc := NewPaymentService(st, zap.NewNop())

		credited, err := svc.MarkPaid(ctx, apt.ID, "txn_1", "completed")
		require.NoError(t, err)
		assert.True(t, credited)

		got, err := st.Appointment(ctx, apt.ID)
		require.NoError(t, err)
		assert.True(t, got.IsPaid)
		assert.Equal(t, models.PaymentPaid, got.PaymentStatus)
		assert.Equal(t, "txn_1", got.TransactionID)
		require.NotNil(t, got.PaidAt)

		rec, err := st.PaymentRecord(ctx, "txn_1")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, apt.ID, rec.AppointmentID)
	})

	t.Run("Repeated Delivery Is Idempotent", func(t *testing.T) {
		st := store.NewMemoryStore()
		apt := acceptedAppointment(t, st)
		svc := NewPaymentService(st, zap.NewNop())

		credited, err := svc.MarkPaid(ctx, apt.ID, "txn_1", "completed")
		require.NoError(t, err)
		assert.True(t, credited)

		first, err := st.Appointment(ctx, apt.ID)
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			credited, err = svc.MarkPaid(ctx, apt.ID, "txn_1", "completed")
			require.NoError(t, err)
			assert.False(t, credited, "redelivery must be a no-op")
		}

		after, err := st.Appointment(ctx, apt.ID)
		require.NoError(t, err)
		assert.Equal(t, first.PaidAt, after.PaidAt, "paidAt must be set exactly once")
	})

	t.Run("Second Transaction For Paid Appointment Is Noop", func(t *testing.T) {
		st := store.NewMemoryStore()
		apt := acceptedAppointment(t, st)
		svc := NewPaymentService(st, zap.NewNop())

		_, err := svc.MarkPaid(ctx, apt.ID, "txn_1", "completed")
		require.NoError(t, err)
		credited, err := svc.MarkPaid(ctx, apt.ID, "txn_2", "completed")
		require.NoError(t, err)
		assert.False(t, credited, "a paid appointment must not be credited again")

		rec, err := st.PaymentRecord(ctx, "txn_2")
		require.NoError(t, err)
		assert.Nil(t, rec, "no payment record for the losing transaction")

		got, err := st.Appointment(ctx, apt.ID)
		require.NoError(t, err)
		assert.Equal(t, "txn_1", got.TransactionID)
	})

	t.Run("Missing Appointment", func(t *testing.T) {
		svc := NewPaymentService(store.NewMemoryStore(), zap.NewNop())
		_, err := svc.MarkPaid(ctx, "nope", "txn_1", "")
		assert.Equal(t, "NOT_FOUND", apperrors.CodeOf(err))
	})
}
