package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/lazari03/pyetdoktorin-sub001/internal/apperrors"
	"github.com/lazari03/pyetdoktorin-sub001/internal/models"
	"github.com/lazari03/pyetdoktorin-sub001/internal/store"
)

type PaymentService struct {
	store store.Store
	log   *zap.Logger
}

func NewPaymentService(st store.Store, log *zap.Logger) *PaymentService {
	return &PaymentService{store: st, log: log}
}

// MarkPaymentProcessing records that a payment attempt has started. Only the
// appointment's own patient may start one (doctors and admins are trusted),
// and only once the appointment is accepted. Already-paid appointments are
// left untouched.
func (s *PaymentService) MarkPaymentProcessing(ctx context.Context, appointmentID, provider string, actor models.Actor) error {
	if provider == "" {
		provider = "paddle"
	}
	return s.store.InTx(ctx, func(ctx context.Context, tx store.Tx) error {
		apt, err := tx.Appointment(ctx, appointmentID)
		if err != nil {
			return err
		}
		if apt == nil {
			return apperrors.NotFound("appointment")
		}
		apt.Normalize()

		if actor.Role == models.RolePatient && actor.ID != apt.PatientID {
			return apperrors.PaymentNotAllowed()
		}
		if apt.Status != models.StatusAccepted {
			return apperrors.PaymentNotAllowed()
		}
		if apt.IsPaid {
			return nil
		}

		now := time.Now().UTC()
		apt.PaymentStatus = models.PaymentProcessing
		apt.PaymentProvider = provider
		apt.PaymentStarted = &now
		return tx.UpdateAppointment(ctx, apt)
	})
}

// MarkPaid is the single idempotent entry point for payment confirmation,
// shared by the webhook and the reconciliation poller. Two guards make
// redelivery and racing entry paths safe: the payment record keyed by
// transaction id, and the appointment's own isPaid flag. It returns whether
// this call applied the credit.
func (s *PaymentService) MarkPaid(ctx context.Context, appointmentID, transactionID, providerStatus string) (bool, error) {
	if providerStatus == "" {
		providerStatus = "completed"
	}

	credited := false
	err := s.store.InTx(ctx, func(ctx context.Context, tx store.Tx) error {
		credited = false

		apt, err := tx.Appointment(ctx, appointmentID)
		if err != nil {
			return err
		}
		if apt == nil {
			return apperrors.NotFound("appointment")
		}

		existing, err := tx.PaymentRecord(ctx, transactionID)
		if err != nil {
			return err
		}
		if existing != nil {
			// Duplicate delivery of an already-credited transaction.
			return nil
		}
		if apt.IsPaid {
			// Paid through some other transaction; do not credit twice.
			return nil
		}

		now := time.Now().UTC()
		if err := tx.InsertPaymentRecord(ctx, &models.PaymentRecord{
			ID:            transactionID,
			AppointmentID: appointmentID,
			TransactionID: transactionID,
			Status:        providerStatus,
			Provider:      "paddle",
			CreatedAt:     now,
		}); err != nil {
			return err
		}

		apt.IsPaid = true
		apt.PaymentStatus = models.PaymentPaid
		apt.TransactionID = transactionID
		apt.PaymentProvider = "paddle"
		apt.PaidAt = &now
		if err := tx.UpdateAppointment(ctx, apt); err != nil {
			return err
		}
		credited = true
		return nil
	})
	if errors.Is(err, store.ErrConflict) {
		// The racing entry path credited this transaction first.
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if credited {
		s.log.Info("payment credited",
			zap.String("appointmentId", appointmentID),
			zap.String("transactionId", transactionID))
	}
	return credited, nil
}
