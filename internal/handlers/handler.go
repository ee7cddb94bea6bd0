package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lazari03/pyetdoktorin-sub001/internal/apperrors"
	"github.com/lazari03/pyetdoktorin-sub001/internal/config"
	"github.com/lazari03/pyetdoktorin-sub001/internal/services"
	"github.com/lazari03/pyetdoktorin-sub001/internal/store"
	"github.com/lazari03/pyetdoktorin-sub001/internal/utils"
)

// Handler carries every dependency the HTTP layer needs; all of them are
// injected in main.
type Handler struct {
	Store    store.Store
	Booking  *services.BookingService
	Status   *services.StatusService
	Payments *services.PaymentService
	Sync     *services.SyncService
	Notifier *services.NotificationService
	JWT      *utils.JWTManager
	Config   *config.Config
	Log      *zap.Logger
}

func NewHandler(
	st store.Store,
	booking *services.BookingService,
	status *services.StatusService,
	payments *services.PaymentService,
	sync *services.SyncService,
	notifier *services.NotificationService,
	jwt *utils.JWTManager,
	cfg *config.Config,
	log *zap.Logger,
) *Handler {
	return &Handler{
		Store:    st,
		Booking:  booking,
		Status:   status,
		Payments: payments,
		Sync:     sync,
		Notifier: notifier,
		JWT:      jwt,
		Config:   cfg,
		Log:      log,
	}
}

// respondError maps a service error onto the wire shape
// {"error": ..., "code": ...}. Unknown errors are logged and surfaced as a
// generic 500 so internal detail never leaks.
func (h *Handler) respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			h.Log.Warn("request failed", zap.String("code", appErr.Code), zap.Error(appErr.Err))
		}
		c.JSON(appErr.Status, gin.H{"error": appErr.Message, "code": appErr.Code})
		return
	}
	h.Log.Error("unhandled error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": "INTERNAL"})
}

// Healthz is the liveness probe.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
