package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lazari03/pyetdoktorin-sub001/internal/apperrors"
	"github.com/lazari03/pyetdoktorin-sub001/internal/middleware"
	"github.com/lazari03/pyetdoktorin-sub001/internal/models"
	"github.com/lazari03/pyetdoktorin-sub001/internal/services"
	"github.com/lazari03/pyetdoktorin-sub001/internal/store"
)

type createAppointmentRequest struct {
	DoctorID        string `json:"doctorId" binding:"required"`
	DoctorName      string `json:"doctorName" binding:"required"`
	AppointmentType string `json:"appointmentType"`
	PreferredDate   string `json:"preferredDate"`
	PreferredTime   string `json:"preferredTime"`
	Note            string `json:"note"`
}

// CreateAppointment books a slot for the calling patient.
func (h *Handler) CreateAppointment(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	actor := middleware.ActorFrom(c)
	patientName := ""
	if user, err := h.Store.User(c.Request.Context(), actor.ID); err == nil && user != nil {
		patientName = user.FullName
	}

	apt, err := h.Booking.Book(c.Request.Context(), services.BookingInput{
		DoctorID:        req.DoctorID,
		DoctorName:      req.DoctorName,
		PatientID:       actor.ID,
		PatientName:     patientName,
		AppointmentType: req.AppointmentType,
		PreferredDate:   req.PreferredDate,
		PreferredTime:   req.PreferredTime,
		Notes:           req.Note,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, apt)
}

// GetAppointments lists appointments visible to the caller, newest first.
// Patients see their own, doctors the ones assigned to them, admins all.
func (h *Handler) GetAppointments(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	filter := store.AppointmentFilter{}
	switch actor.Role {
	case models.RolePatient:
		filter.PatientID = actor.ID
	case models.RoleDoctor:
		filter.DoctorID = actor.ID
	}

	appointments, err := h.Store.ListAppointments(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// The status filter compares normalized values so legacy spellings
	// ("Finished", "Declined") cannot escape their canonical bucket.
	var wantStatus models.Status
	if raw := c.Query("status"); raw != "" {
		wantStatus = models.NormalizeStatus(raw)
	}

	result := make([]models.Appointment, 0, len(appointments))
	for i := range appointments {
		appointments[i].Normalize()
		if wantStatus != "" && appointments[i].Status != wantStatus {
			continue
		}
		result = append(result, appointments[i])
	}
	c.JSON(http.StatusOK, result)
}

// GetAppointment fetches a single appointment under the same visibility rule
// as the listing.
func (h *Handler) GetAppointment(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	apt, err := h.Store.Appointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if apt == nil {
		h.respondError(c, apperrors.NotFound("appointment"))
		return
	}
	switch actor.Role {
	case models.RolePatient:
		if apt.PatientID != actor.ID {
			h.respondError(c, apperrors.Forbidden())
			return
		}
	case models.RoleDoctor:
		if apt.DoctorID != actor.ID {
			h.respondError(c, apperrors.Forbidden())
			return
		}
	}
	apt.Normalize()
	c.JSON(http.StatusOK, apt)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateAppointmentStatus drives the appointment lifecycle. Only doctors and
// admins may change status.
func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if actor.Role != models.RoleDoctor && actor.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	apt, err := h.Status.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, actor)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if patient, err := h.Store.User(c.Request.Context(), apt.PatientID); err == nil {
		h.Notifier.AppointmentStatusChanged(patient, apt)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type paymentStartedRequest struct {
	Provider string `json:"provider"`
}

// PaymentStarted marks the appointment's payment as in flight.
func (h *Handler) PaymentStarted(c *gin.Context) {
	var req paymentStartedRequest
	// Body is optional; provider defaults when absent.
	_ = c.ShouldBindJSON(&req)

	actor := middleware.ActorFrom(c)
	if err := h.Payments.MarkPaymentProcessing(c.Request.Context(), c.Param("id"), req.Provider, actor); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
