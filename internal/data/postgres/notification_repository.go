package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/school-finance-ledger/internal/domain/notification"
	"github.com/school-finance-ledger/internal/platform/persistence"
)

// NotificationRepository implements notification.Repository for PostgreSQL
type NotificationRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewNotificationRepository creates a new PostgreSQL notification repository
func NewNotificationRepository(logger *slog.Logger, db *persistence.PostgresDB) notification.Repository {
	return &NotificationRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *NotificationRepository) WithTx(tx pgx.Tx) notification.Repository {
	return &NotificationRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new PENDING notification row
func (r *NotificationRepository) Create(ctx context.Context, n *notification.WhatsappNotification) error {
	query := `
		INSERT INTO whatsapp_notifications (phone, message, type, status, sent_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		n.Phone,
		n.Message,
		n.Type,
		n.Status,
		n.SentAt,
		n.CreatedAt,
	).Scan(&n.ID)
	if err != nil {
		r.logger.Error("Failed to create notification", "type", n.Type, "error", err)
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// MarkSent resolves a notification to SENT with the delivery timestamp
func (r *NotificationRepository) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	query := `
		UPDATE whatsapp_notifications
		SET status = 'SENT', sent_at = $1
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, sentAt, id)
	if err != nil {
		r.logger.Error("Failed to mark notification sent", "id", id, "error", err)
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("notification not found: %d", id)
	}

	return nil
}

// MarkFailed resolves a notification to FAILED
func (r *NotificationRepository) MarkFailed(ctx context.Context, id int64) error {
	query := `
		UPDATE whatsapp_notifications
		SET status = 'FAILED'
		WHERE id = $1
	`

	result, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to mark notification failed", "id", id, "error", err)
		return fmt.Errorf("failed to mark notification failed: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("notification not found: %d", id)
	}

	return nil
}

// ListPending retrieves up to limit PENDING notifications, oldest first
func (r *NotificationRepository) ListPending(ctx context.Context, limit int) ([]*notification.WhatsappNotification, error) {
	query := `
		SELECT id, phone, message, type, status, sent_at, created_at
		FROM whatsapp_notifications
		WHERE status = 'PENDING'
		ORDER BY created_at
		LIMIT $1
	`

	rows, err := r.querier.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to list pending notifications", "error", err)
		return nil, fmt.Errorf("failed to list pending notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*notification.WhatsappNotification
	for rows.Next() {
		var n notification.WhatsappNotification
		if err := rows.Scan(
			&n.ID,
			&n.Phone,
			&n.Message,
			&n.Type,
			&n.Status,
			&n.SentAt,
			&n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notification rows: %w", err)
	}

	return notifications, nil
}
