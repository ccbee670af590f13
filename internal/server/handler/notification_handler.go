package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/school-finance-ledger/internal/domain/notification"
	"github.com/school-finance-ledger/internal/service"
)

// NotificationHandler handles HTTP requests for WhatsApp notifications
type NotificationHandler struct {
	notificationService service.NotificationService
	logger              *slog.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(logger *slog.Logger, notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// Create enqueues a WhatsApp notification. The response reflects the
// pre-dispatch PENDING row; delivery is asynchronous.
func (h *NotificationHandler) Create(c *gin.Context) {
	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	n, err := h.notificationService.CreateNotification(c.Request.Context(), req.Phone, req.Message, notification.Type(req.Type))
	if err != nil {
		h.logger.Error("Failed to create notification", "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondCreated(c, n)
}
