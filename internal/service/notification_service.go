package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/school-finance-ledger/internal/domain/notification"
	"github.com/school-finance-ledger/internal/domain/student"
	"github.com/school-finance-ledger/internal/platform/messaging/producers"
	"github.com/school-finance-ledger/internal/server/middleware"
	"github.com/shopspring/decimal"
)

// NotificationServiceImpl implements the NotificationService interface. The
// Postgres row is the authoritative dispatch status; Kafka only carries the
// work to the notifier process.
type NotificationServiceImpl struct {
	notificationRepo notification.Repository
	producer         producers.MessagePublisher
	logger           *slog.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo notification.Repository,
	producer producers.MessagePublisher,
	logger *slog.Logger,
) NotificationService {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		producer:         producer,
		logger:           logger,
	}
}

// CreateNotification inserts a PENDING row and publishes a dispatch request.
// A publish failure leaves the row PENDING; the notifier's pending sweep
// picks it up later.
func (s *NotificationServiceImpl) CreateNotification(ctx context.Context, phone, message string, nType notification.Type) (*notification.WhatsappNotification, error) {
	if !nType.Valid() {
		return nil, fmt.Errorf("invalid notification type: %s", nType)
	}
	if phone == "" {
		return nil, fmt.Errorf("notification phone cannot be empty")
	}

	n := &notification.WhatsappNotification{
		Phone:     phone,
		Message:   message,
		Type:      nType,
		Status:    notification.StatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return nil, err
	}

	request := notification.DispatchRequest{
		NotificationID: n.ID,
		Phone:          n.Phone,
		Message:        n.Message,
		Type:           n.Type,
		CorrelationID:  middleware.CorrelationIDFromContext(ctx),
	}
	if err := s.producer.Publish(ctx, strconv.FormatInt(n.ID, 10), request); err != nil {
		s.logger.Warn("Failed to publish notification, row stays pending",
			"notification_id", n.ID,
			"error", err,
		)
	}

	return n, nil
}

// SendPaymentConfirmation enqueues a payment confirmation to the student's
// parent phone, falling back to the student's own phone. A student with no
// phone on file is a no-op.
func (s *NotificationServiceImpl) SendPaymentConfirmation(ctx context.Context, st *student.Student, amount decimal.Decimal) error {
	phone := ""
	if st.ParentPhone != nil && *st.ParentPhone != "" {
		phone = *st.ParentPhone
	} else if st.Phone != nil && *st.Phone != "" {
		phone = *st.Phone
	}
	if phone == "" {
		s.logger.Debug("No phone on file for payment confirmation", "student_id", st.ID)
		return nil
	}

	message := fmt.Sprintf(
		"Pembayaran sebesar Rp %s untuk %s (NIS %s) telah kami terima. Terima kasih.",
		amount.StringFixed(2), st.Name, st.NIS,
	)
	_, err := s.CreateNotification(ctx, phone, message, notification.TypePaymentConfirmation)
	return err
}
