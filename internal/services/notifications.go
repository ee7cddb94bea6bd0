package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/lazari03/pyetdoktorin-sub001/internal/models"
)

// NotificationService tells patients about status changes over SMS. Delivery
// is fire-and-forget: a failed or skipped notification never affects the
// transaction that triggered it.
type NotificationService struct {
	log         *zap.Logger
	textbeltKey string
	http        *http.Client
}

func NewNotificationService(log *zap.Logger, textbeltKey string) *NotificationService {
	return &NotificationService{
		log:         log,
		textbeltKey: textbeltKey,
		http:        &http.Client{Timeout: 10 * time.Second},
	}
}

// AppointmentStatusChanged notifies the patient of the appointment's new
// status. Runs the send in a goroutine so the handler response is not blocked.
func (s *NotificationService) AppointmentStatusChanged(patient *models.User, apt *models.Appointment) {
	if patient == nil || patient.Phone == "" {
		s.log.Debug("sms skipped, patient has no phone number",
			zap.String("appointmentId", apt.ID))
		return
	}

	body := fmt.Sprintf("Your appointment with %s on %s at %s is now %s.",
		apt.DoctorName, apt.PreferredDate, apt.PreferredTime, apt.Status)

	go s.sendSMS(patient.Phone, body)
}

func (s *NotificationService) sendSMS(phone, message string) {
	if s.textbeltKey == "" {
		s.log.Debug("sms skipped, no textbelt key configured")
		return
	}

	payload, _ := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     s.textbeltKey,
	})

	resp, err := s.http.Post("https://textbelt.com/text", "application/json", bytes.NewReader(payload))
	if err != nil {
		s.log.Warn("sms send failed", zap.String("phone", phone), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil || !result.Success {
		s.log.Warn("sms rejected by textbelt",
			zap.String("phone", phone),
			zap.String("reason", result.Error))
		return
	}
	s.log.Info("sms sent", zap.String("phone", phone))
}
