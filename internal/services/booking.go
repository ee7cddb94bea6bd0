// Package services implements the booking, status, and payment core. Each
// service receives the storage port in its constructor; nothing here holds a
// database handle or global state.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lazari03/pyetdoktorin-sub001/internal/apperrors"
	"github.com/lazari03/pyetdoktorin-sub001/internal/models"
	"github.com/lazari03/pyetdoktorin-sub001/internal/store"
)

type BookingInput struct {
	DoctorID        string
	DoctorName      string
	PatientID       string
	PatientName     string
	AppointmentType string
	PreferredDate   string
	PreferredTime   string
	Notes           string
}

type BookingService struct {
	store store.Store
	log   *zap.Logger
}

func NewBookingService(st store.Store, log *zap.Logger) *BookingService {
	return &BookingService{store: st, log: log}
}

// Book reserves a slot and creates its appointment in one transaction. The
// slot lock and the appointment commit together or not at all, so concurrent
// requests for the same (doctor, date, time) cannot both win: the loser either
// reads the winner's lock after retry or hits the lock's unique key.
func (s *BookingService) Book(ctx context.Context, in BookingInput) (*models.Appointment, error) {
	if in.PreferredTime == "" {
		return nil, apperrors.PreferredTimeRequired()
	}
	if in.PreferredDate == "" {
		return nil, apperrors.PreferredDateRequired()
	}

	slotID := models.SlotKey(in.DoctorID, in.PreferredDate, in.PreferredTime)
	now := time.Now().UTC()

	apt := &models.Appointment{
		ID:              uuid.NewString(),
		DoctorID:        in.DoctorID,
		DoctorName:      in.DoctorName,
		PatientID:       in.PatientID,
		PatientName:     in.PatientName,
		AppointmentType: in.AppointmentType,
		PreferredDate:   in.PreferredDate,
		PreferredTime:   in.PreferredTime,
		Notes:           in.Notes,
		Status:          models.StatusPending,
		IsPaid:          false,
		PaymentStatus:   models.PaymentUnpaid,
		SlotID:          slotID,
		CreatedAt:       now,
	}

	err := s.store.InTx(ctx, func(ctx context.Context, tx store.Tx) error {
		existing, err := tx.SlotLock(ctx, slotID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.SlotAlreadyBooked()
		}
		if err := tx.InsertAppointment(ctx, apt); err != nil {
			return err
		}
		return tx.InsertSlotLock(ctx, &models.SlotLock{
			ID:            slotID,
			AppointmentID: apt.ID,
			DoctorID:      in.DoctorID,
			PreferredDate: in.PreferredDate,
			PreferredTime: in.PreferredTime,
			CreatedAt:     now,
		})
	})
	if errors.Is(err, store.ErrConflict) {
		return nil, apperrors.SlotAlreadyBooked()
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("appointment booked",
		zap.String("appointmentId", apt.ID),
		zap.String("doctorId", in.DoctorID),
		zap.String("slotId", slotID))
	return apt, nil
}
