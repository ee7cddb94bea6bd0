package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/lazari03/pyetdoktorin-sub001/internal/apperrors"
	"github.com/lazari03/pyetdoktorin-sub001/internal/models"
	"github.com/lazari03/pyetdoktorin-sub001/internal/store"
)

// ProviderClient is the slice of the provider API the poller needs.
type ProviderClient interface {
	FindTransactionForAppointment(ctx context.Context, appointmentID string) (string, error)
}

// SyncService is the pull-based fallback for when webhook delivery is delayed
// or lost. It feeds the same MarkPaid routine the webhook uses, so both entry
// points produce identical outcomes.
type SyncService struct {
	store    store.Store
	payments *PaymentService
	provider ProviderClient
	log      *zap.Logger
}

func NewSyncService(st store.Store, payments *PaymentService, provider ProviderClient, log *zap.Logger) *SyncService {
	return &SyncService{store: st, payments: payments, provider: provider, log: log}
}

type SyncResult struct {
	Updated bool `json:"updated"`
	IsPaid  bool `json:"isPaid"`
}

// SyncPayment reconciles one appointment against the provider. Patients may
// sync only their own appointment, doctors only one they are assigned to,
// admins any. Already-paid appointments short-circuit without a provider call.
func (s *SyncService) SyncPayment(ctx context.Context, appointmentID string, actor models.Actor) (*SyncResult, error) {
	apt, err := s.store.Appointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if apt == nil {
		return nil, apperrors.NotFound("appointment")
	}

	switch actor.Role {
	case models.RoleAdmin:
	case models.RolePatient:
		if actor.ID != apt.PatientID {
			return nil, apperrors.Forbidden()
		}
	case models.RoleDoctor:
		if actor.ID != apt.DoctorID {
			return nil, apperrors.Forbidden()
		}
	default:
		return nil, apperrors.Forbidden()
	}

	if apt.IsPaid {
		return &SyncResult{Updated: false, IsPaid: true}, nil
	}

	transactionID, err := s.provider.FindTransactionForAppointment(ctx, appointmentID)
	if err != nil {
		s.log.Error("provider transaction lookup failed",
			zap.String("appointmentId", appointmentID),
			zap.Error(err))
		return nil, apperrors.Upstream(err)
	}
	if transactionID == "" {
		return &SyncResult{Updated: false, IsPaid: false}, nil
	}

	credited, err := s.payments.MarkPaid(ctx, appointmentID, transactionID, "completed")
	if err != nil {
		return nil, err
	}
	return &SyncResult{Updated: credited, IsPaid: true}, nil
}
