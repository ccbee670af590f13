package notification

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// Type classifies an outgoing WhatsApp message
type Type string

const (
	TypeBillReminder        Type = "BILL_REMINDER"
	TypePaymentConfirmation Type = "PAYMENT_CONFIRMATION"
	TypeAnnouncement        Type = "ANNOUNCEMENT"
)

// Valid reports whether the notification type is known
func (t Type) Valid() bool {
	return t == TypeBillReminder || t == TypePaymentConfirmation || t == TypeAnnouncement
}

// Status tracks dispatch progress of a notification row
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSent    Status = "SENT"
	StatusFailed  Status = "FAILED"
)

// WhatsappNotification is a write-behind side channel row: created PENDING
// by the API process and resolved to SENT/FAILED by the notifier. Dispatch
// never participates in ledger transactions.
type WhatsappNotification struct {
	ID        int64      `json:"id"`
	Phone     string     `json:"phone"`
	Message   string     `json:"message"`
	Type      Type       `json:"type"`
	Status    Status     `json:"status"`
	SentAt    *time.Time `json:"sent_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// DispatchRequest is the Kafka payload handed to the notifier
type DispatchRequest struct {
	NotificationID int64  `json:"notification_id"`
	Phone          string `json:"phone"`
	Message        string `json:"message"`
	Type           Type   `json:"type"`
	CorrelationID  string `json:"correlation_id,omitempty"`
}

// Repository defines notification persistence operations
type Repository interface {
	Create(ctx context.Context, n *WhatsappNotification) error
	MarkSent(ctx context.Context, id int64, sentAt time.Time) error
	MarkFailed(ctx context.Context, id int64) error
	ListPending(ctx context.Context, limit int) ([]*WhatsappNotification, error)
	WithTx(tx pgx.Tx) Repository
}
