// Package notifier is the dispatch side of the WhatsApp channel: it
// consumes dispatch requests from Kafka, fans them out over a worker
// pool and resolves the backing notification rows to SENT or FAILED.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/school-finance-ledger/internal/domain/notification"
)

// WhatsAppSender delivers a single message to a phone number
type WhatsAppSender interface {
	Send(ctx context.Context, phone, message string, msgType notification.Type) error
}

// SimulatedWhatsAppSender stands in for a real WhatsApp gateway. It logs
// the outgoing message and reports success after a short delivery delay.
type SimulatedWhatsAppSender struct {
	logger *slog.Logger
	delay  time.Duration
}

// NewSimulatedWhatsAppSender creates a simulated gateway with the given
// artificial delivery delay
func NewSimulatedWhatsAppSender(logger *slog.Logger, delay time.Duration) *SimulatedWhatsAppSender {
	return &SimulatedWhatsAppSender{
		logger: logger,
		delay:  delay,
	}
}

// Send simulates message delivery. Empty phone numbers are rejected the
// same way a real gateway would reject them.
func (s *SimulatedWhatsAppSender) Send(ctx context.Context, phone, message string, msgType notification.Type) error {
	if phone == "" {
		return fmt.Errorf("cannot send %s message: empty phone number", msgType)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.delay):
	}

	s.logger.Info("WhatsApp message delivered",
		"phone", phone,
		"type", msgType,
		"message_length", len(message),
	)
	return nil
}
