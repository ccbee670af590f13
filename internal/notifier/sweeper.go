package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/school-finance-ledger/internal/config"
	"github.com/school-finance-ledger/internal/domain/notification"
)

// Sweeper re-dispatches PENDING notification rows. Rows stay PENDING
// when the Kafka publish on the API side failed, so the sweep is the
// recovery path that keeps those messages from being lost.
type Sweeper struct {
	repo          notification.Repository
	dispatcher    *Dispatcher
	logger        *slog.Logger
	sweepInterval time.Duration
	batchSize     int
	minAge        time.Duration
}

func NewSweeper(
	cfg *config.NotifierConfig,
	repo notification.Repository,
	dispatcher *Dispatcher,
	logger *slog.Logger,
) *Sweeper {
	return &Sweeper{
		repo:          repo,
		dispatcher:    dispatcher,
		logger:        logger,
		sweepInterval: cfg.SweepInterval,
		batchSize:     cfg.SweepBatchSize,
		minAge:        cfg.SweepMinAge,
	}
}

// Start begins sweeping until the context is canceled
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Starting notification sweeper",
		"sweep_interval", s.sweepInterval.String(),
		"batch_size", s.batchSize,
		"min_age", s.minAge.String(),
	)
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Notification sweeper stopping due to context cancellation.")
			return
		case <-ticker.C:
			s.logger.Debug("Notification sweeper tick: processing pending rows")
			if err := s.sweepPending(ctx); err != nil {
				s.logger.Error("Error during sweep of pending notifications", "error", err)
			}
		}
	}
}

func (s *Sweeper) sweepPending(ctx context.Context) error {
	pending, err := s.repo.ListPending(ctx, s.batchSize)
	if err != nil {
		return fmt.Errorf("failed to list pending notifications: %w", err)
	}

	if len(pending) == 0 {
		s.logger.Debug("No pending notifications found.")
		return nil
	}

	cutoff := time.Now().Add(-s.minAge)
	swept := 0
	for _, n := range pending {
		// Young rows may still have a Kafka delivery in flight; leave
		// them for the consumer to avoid double sends.
		if n.CreatedAt.After(cutoff) {
			continue
		}

		request := &notification.DispatchRequest{
			NotificationID: n.ID,
			Phone:          n.Phone,
			Message:        n.Message,
			Type:           n.Type,
		}

		if err := s.dispatcher.Dispatch(ctx, request); err != nil {
			s.logger.Error("Failed to re-dispatch pending notification",
				"notification_id", n.ID, "error", err,
			)
			continue
		}
		swept++
	}

	if swept > 0 {
		s.logger.Info("Re-dispatched pending notifications", "count", swept)
	}
	return nil
}
