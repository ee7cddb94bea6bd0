package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lazari03/pyetdoktorin-sub001/internal/apperrors"
	"github.com/lazari03/pyetdoktorin-sub001/internal/models"
	"github.com/lazari03/pyetdoktorin-sub001/internal/store"
)

func bookingInput(patientID string) BookingInput {
	return BookingInput{
		DoctorID:      "doc-1",
		DoctorName:    "Dr. Vula",
		PatientID:     patientID,
		PatientName:   "Patient " + patientID,
		PreferredDate: "2025-01-10",
		PreferredTime: "10:00",
	}
}

func TestBookAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates Appointment And Slot Lock", func(t *testing.T) {
		st := store.NewMemoryStore()
		svc := NewBookingService(st, zap.NewNop())

		apt, err := svc.Book(ctx, bookingInput("p1"))
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, apt.Status)
		assert.False(t, apt.IsPaid)
		assert.Equal(t, models.PaymentUnpaid, apt.PaymentStatus)
		assert.NotEmpty(t, apt.ID)
		assert.False(t, apt.CreatedAt.IsZero())

		lock, err := st.SlotLock(ctx, apt.SlotID)
		require.NoError(t, err)
		require.NotNil(t, lock)
		assert.Equal(t, apt.ID, lock.AppointmentID)
	})

	t.Run("Second Booking Same Slot Conflicts", func(t *testing.T) {
		st := store.NewMemoryStore()
		svc := NewBookingService(st, zap.NewNop())

		_, err := svc.Book(ctx, bookingInput("p1"))
		require.NoError(t, err)

		_, err = svc.Book(ctx, bookingInput("p2"))
		require.Error(t, err)
		assert.Equal(t, "SLOT_ALREADY_BOOKED", apperrors.CodeOf(err))
	})

	t.Run("Different Slot Still Free", func(t *testing.T) {
		st := store.NewMemoryStore()
		svc := NewBookingService(st, zap.NewNop())

		_, err := svc.Book(ctx, bookingInput("p1"))
		require.NoError(t, err)

		other := bookingInput("p2")
		other.PreferredTime = "11:00"
		_, err = svc.Book(ctx, other)
		assert.NoError(t, err)
	})

	t.Run("Missing Preferred Time", func(t *testing.T) {
		svc := NewBookingService(store.NewMemoryStore(), zap.NewNop())
		in := bookingInput("p1")
		in.PreferredTime = ""
		_, err := svc.Book(ctx, in)
		assert.Equal(t, "PREFERRED_TIME_REQUIRED", apperrors.CodeOf(err))
	})

	t.Run("Missing Preferred Date", func(t *testing.T) {
		svc := NewBookingService(store.NewMemoryStore(), zap.NewNop())
		in := bookingInput("p1")
		in.PreferredDate = ""
		_, err := svc.Book(ctx, in)
		assert.Equal(t, "PREFERRED_DATE_REQUIRED", apperrors.CodeOf(err))
	})
}

func TestBookAppointmentConcurrent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := NewBookingService(st, zap.NewNop())

	const racers = 32
	var wg sync.WaitGroup
	errs := make([]error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Book(ctx, bookingInput("p1"))
		}(i)
	}
	wg.Wait()

	winners, losers := 0, 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		assert.Equal(t, "SLOT_ALREADY_BOOKED", apperrors.CodeOf(err))
		losers++
	}
	assert.Equal(t, 1, winners, "exactly one concurrent booking must win")
	assert.Equal(t, racers-1, losers)
}
