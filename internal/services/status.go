package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lazari03/pyetdoktorin-sub001/internal/apperrors"
	"github.com/lazari03/pyetdoktorin-sub001/internal/models"
	"github.com/lazari03/pyetdoktorin-sub001/internal/store"
)

type StatusService struct {
	store store.Store
	log   *zap.Logger
}

func NewStatusService(st store.Store, log *zap.Logger) *StatusService {
	return &StatusService{store: st, log: log}
}

// UpdateStatus moves an appointment through its lifecycle. The status write,
// the confirmedAt stamp, and the slot release all commit in one transaction.
// Who may act on which appointment is the boundary layer's problem; the actor
// role is consumed only for the confirmedAt side effect.
func (s *StatusService) UpdateStatus(ctx context.Context, id, rawStatus string, actor models.Actor) (*models.Appointment, error) {
	next, ok := models.ParseStatus(rawStatus)
	if !ok {
		return nil, apperrors.InvalidAppointmentStatus(rawStatus)
	}

	var updated *models.Appointment
	err := s.store.InTx(ctx, func(ctx context.Context, tx store.Tx) error {
		apt, err := tx.Appointment(ctx, id)
		if err != nil {
			return err
		}
		if apt == nil {
			return apperrors.NotFound("appointment")
		}
		apt.Normalize()

		if apt.Status == next {
			// Duplicate actor action; nothing to do.
			updated = apt
			return nil
		}
		if !apt.Status.CanTransitionTo(next) {
			return apperrors.InvalidStatusTransition(string(apt.Status), string(next))
		}

		apt.Status = next
		if next == models.StatusAccepted && actor.Role == models.RoleDoctor {
			now := time.Now().UTC()
			apt.ConfirmedAt = &now
		}
		if next == models.StatusRejected || next == models.StatusCompleted {
			if err := tx.DeleteSlotLock(ctx, apt.SlotID); err != nil {
				return err
			}
		}
		if err := tx.UpdateAppointment(ctx, apt); err != nil {
			return err
		}
		updated = apt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("appointment status updated",
		zap.String("appointmentId", id),
		zap.String("status", string(updated.Status)),
		zap.String("actorRole", actor.Role))
	return updated, nil
}
