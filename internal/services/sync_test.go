package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lazari03/pyetdoktorin-sub001/internal/apperrors"
	"github.com/lazari03/pyetdoktorin-sub001/internal/models"
	"github.com/lazari03/pyetdoktorin-sub001/internal/store"
)

// fakeProvider scripts the transactions lookup.
type fakeProvider struct {
	transactionID string
	err           error
	calls         int
}

func (f *fakeProvider) FindTransactionForAppointment(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.transactionID, f.err
}

func newSyncTest(t *testing.T, provider *fakeProvider) (*store.MemoryStore, *SyncService, *models.Appointment) {
	t.Helper()
	st := store.NewMemoryStore()
	apt := acceptedAppointment(t, st)
	payments := NewPaymentService(st, zap.NewNop())
	return st, NewSyncService(st, payments, provider, zap.NewNop()), apt
}

func TestSyncPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("Applies Found Transaction", func(t *testing.T) {
		provider := &fakeProvider{transactionID: "txn_9"}
		st, svc, apt := newSyncTest(t, provider)

		result, err := svc.SyncPayment(ctx, apt.ID, patientActor)
		require.NoError(t, err)
		assert.True(t, result.Updated)
		assert.True(t, result.IsPaid)

		got, err := st.Appointment(ctx, apt.ID)
		require.NoError(t, err)
		assert.True(t, got.IsPaid)
		assert.Equal(t, "txn_9", got.TransactionID)
	})

	t.Run("Already Paid Short Circuits", func(t *testing.T) {
		provider := &fakeProvider{transactionID: "txn_9"}
		st, svc, apt := newSyncTest(t, provider)

		_, err := NewPaymentService(st, zap.NewNop()).MarkPaid(ctx, apt.ID, "txn_1", "")
		require.NoError(t, err)

		result, err := svc.SyncPayment(ctx, apt.ID, patientActor)
		require.NoError(t, err)
		assert.False(t, result.Updated)
		assert.True(t, result.IsPaid)
		assert.Zero(t, provider.calls, "provider API must not be called for a paid appointment")
	})

	t.Run("No Matching Transaction", func(t *testing.T) {
		provider := &fakeProvider{}
		_, svc, apt := newSyncTest(t, provider)

		result, err := svc.SyncPayment(ctx, apt.ID, patientActor)
		require.NoError(t, err)
		assert.False(t, result.Updated)
		assert.False(t, result.IsPaid)
	})

	t.Run("Provider Failure Propagates Without State Change", func(t *testing.T) {
		provider := &fakeProvider{err: errors.New("boom")}
		st, svc, apt := newSyncTest(t, provider)

		_, err := svc.SyncPayment(ctx, apt.ID, patientActor)
		assert.Equal(t, "UPSTREAM_ERROR", apperrors.CodeOf(err))

		got, err := st.Appointment(ctx, apt.ID)
		require.NoError(t, err)
		assert.False(t, got.IsPaid)
	})

	t.Run("Authorization Matrix", func(t *testing.T) {
		cases := []struct {
			name    string
			actor   models.Actor
			allowed bool
		}{
			{"Own Patient", models.Actor{ID: "p1", Role: models.RolePatient}, true},
			{"Other Patient", models.Actor{ID: "p2", Role: models.RolePatient}, false},
			{"Assigned Doctor", models.Actor{ID: "doc-1", Role: models.RoleDoctor}, true},
			{"Other Doctor", models.Actor{ID: "doc-2", Role: models.RoleDoctor}, false},
			{"Admin", models.Actor{ID: "any", Role: models.RoleAdmin}, true},
			{"Unknown Role", models.Actor{ID: "x", Role: "visitor"}, false},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				provider := &fakeProvider{transactionID: "txn_9"}
				_, svc, apt := newSyncTest(t, provider)

				_, err := svc.SyncPayment(ctx, apt.ID, tc.actor)
				if tc.allowed {
					assert.NoError(t, err)
				} else {
					assert.Equal(t, "FORBIDDEN", apperrors.CodeOf(err))
				}
			})
		}
	})

	t.Run("Missing Appointment", func(t *testing.T) {
		provider := &fakeProvider{}
		_, svc, _ := newSyncTest(t, provider)
		_, err := svc.SyncPayment(ctx, "nope", patientActor)
		assert.Equal(t, "NOT_FOUND", apperrors.CodeOf(err))
	})
}
