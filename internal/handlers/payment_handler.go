package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lazari03/pyetdoktorin-sub001/internal/apperrors"
	"github.com/lazari03/pyetdoktorin-sub001/internal/middleware"
	"github.com/lazari03/pyetdoktorin-sub001/internal/payments"
)

// PaymentWebhook receives provider push notifications. The signature over the
// exact raw bytes is the only authentication; a bad signature gets a bare 401
// with no detail. Redelivery of the same event is harmless because MarkPaid
// is idempotent.
func (h *Handler) PaymentWebhook(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read body"})
		return
	}

	signature := c.GetHeader("Signature")
	if !payments.VerifySignature(rawBody, signature, h.Config.PaymentWebhookSecret, h.Config.WebhookMaxAge, time.Now()) {
		h.Log.Warn("webhook signature rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	event, err := payments.ParseWebhookEvent(rawBody)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if event.Type() != payments.EventTransactionCompleted {
		// Not ours; acknowledge so the provider stops retrying.
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	appointmentID := event.Data.AppointmentID()
	transactionID := event.Data.ID
	if appointmentID == "" || transactionID == "" {
		h.Log.Info("webhook event missing references, acknowledged without action",
			zap.String("eventType", event.Type()))
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	if _, err := h.Payments.MarkPaid(c.Request.Context(), appointmentID, transactionID, event.Data.Status); err != nil {
		// An unknown appointment reference is inert, not an error: any
		// non-2xx would make the provider redeliver forever.
		if apperrors.CodeOf(err) == "NOT_FOUND" {
			h.Log.Info("webhook references unknown appointment, acknowledged without action",
				zap.String("appointmentId", appointmentID),
				zap.String("transactionId", transactionID))
			c.JSON(http.StatusOK, gin.H{"ok": true})
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type syncPaymentRequest struct {
	AppointmentID string `json:"appointmentId" binding:"required"`
}

// SyncPayment lets a client pull payment state from the provider when the
// webhook has not arrived.
func (h *Handler) SyncPayment(c *gin.Context) {
	var req syncPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.Sync.SyncPayment(c.Request.Context(), req.AppointmentID, middleware.ActorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "updated": result.Updated, "isPaid": result.IsPaid})
}
