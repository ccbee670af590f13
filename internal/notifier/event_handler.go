package notifier

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/school-finance-ledger/internal/domain/notification"
)

// DispatchEventHandler handles incoming dispatch request messages from Kafka
type DispatchEventHandler struct {
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// NewDispatchEventHandler creates a new handler
func NewDispatchEventHandler(logger *slog.Logger, dispatcher *Dispatcher) *DispatchEventHandler {
	return &DispatchEventHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// HandleMessage processes Kafka messages. Malformed payloads are logged
// and dropped so the offset still advances; the sweeper resolves the
// stuck PENDING row on its next pass.
func (h *DispatchEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var request notification.DispatchRequest
	if err := json.Unmarshal(value, &request); err != nil {
		h.logger.Error("Failed to unmarshal dispatch request from Kafka message",
			"error", err,
			"message_key", string(key),
		)
		return nil
	}

	logger := h.logger
	if request.CorrelationID != "" {
		logger = h.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Received notification dispatch request",
		"notification_id", request.NotificationID,
		"type", request.Type,
	)

	// A failed dispatch already resolved the row to FAILED, so the offset
	// is committed either way; retrying the message would not change the
	// outcome.
	if err := h.dispatcher.Dispatch(ctx, &request); err != nil {
		logger.Error("Failed to dispatch notification",
			"notification_id", request.NotificationID,
			"error", err,
		)
	}

	return nil
}
