package notifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/school-finance-ledger/internal/domain/notification"
)

// Dispatcher sends notifications through a bounded worker pool and
// records the outcome on the notification row
type Dispatcher struct {
	sender WhatsAppSender
	repo   notification.Repository
	pool   *ants.Pool
	logger *slog.Logger
}

// DispatcherConfig controls worker pool sizing
type DispatcherConfig struct {
	PoolSize int
}

// NewDispatcher creates a dispatcher backed by a worker pool of the
// configured size
func NewDispatcher(
	logger *slog.Logger,
	cfg DispatcherConfig,
	sender WhatsAppSender,
	repo notification.Repository,
) (*Dispatcher, error) {
	pool, err := ants.NewPool(cfg.PoolSize)
	if err != nil {
		return nil, err
	}

	return &Dispatcher{
		sender: sender,
		repo:   repo,
		pool:   pool,
		logger: logger,
	}, nil
}

// Dispatch submits a request to the worker pool and waits for the
// delivery outcome. The notification row is marked SENT or FAILED
// before the result is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, request *notification.DispatchRequest) error {
	logger := d.logger
	if request.CorrelationID != "" {
		logger = d.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Submitting notification to worker pool",
		"notification_id", request.NotificationID,
		"type", request.Type,
	)

	resultChan := make(chan error, 1)

	// Copy the request to avoid data races with the caller
	requestCopy := *request

	err := d.pool.Submit(func() {
		resultChan <- d.deliver(ctx, logger, &requestCopy)
		close(resultChan)
	})
	if err != nil {
		close(resultChan)
		logger.Error("Failed to submit notification to worker pool",
			"notification_id", request.NotificationID,
			"error", err,
		)
		return err
	}

	return <-resultChan
}

// deliver performs the actual send and resolves the row status
func (d *Dispatcher) deliver(ctx context.Context, logger *slog.Logger, request *notification.DispatchRequest) error {
	sendErr := d.sender.Send(ctx, request.Phone, request.Message, request.Type)
	if sendErr != nil {
		logger.Error("Failed to deliver notification",
			"notification_id", request.NotificationID,
			"error", sendErr,
		)
		if err := d.repo.MarkFailed(ctx, request.NotificationID); err != nil {
			logger.Error("Failed to mark notification as failed",
				"notification_id", request.NotificationID,
				"error", err,
			)
		}
		return sendErr
	}

	if err := d.repo.MarkSent(ctx, request.NotificationID, time.Now()); err != nil {
		logger.Error("Failed to mark notification as sent",
			"notification_id", request.NotificationID,
			"error", err,
		)
		return err
	}

	logger.Info("Notification delivered", "notification_id", request.NotificationID)
	return nil
}

// Shutdown releases the worker pool
func (d *Dispatcher) Shutdown() {
	d.logger.Info("Shutting down notification worker pool", "running_workers", d.pool.Running())
	d.pool.Release()
}

// Running returns the number of active dispatch workers
func (d *Dispatcher) Running() int {
	return d.pool.Running()
}
