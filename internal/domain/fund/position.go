package fund

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ErrEmptyName indicates a fund position without a name
var ErrEmptyName = errors.New("fund position name cannot be empty")

// Position is an earmarked fund pool. Like an account balance, the cached
// balance is only mutated together with a transactions row that allocates
// to this fund.
type Position struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewPosition creates a fund position with a zero opening balance
func NewPosition(name string, description *string) (*Position, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	now := time.Now()
	return &Position{
		Name:        name,
		Description: description,
		Balance:     decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Repository defines fund position persistence operations
type Repository interface {
	Create(ctx context.Context, p *Position) error
	GetByID(ctx context.Context, id int64) (*Position, error)
	List(ctx context.Context) ([]*Position, error)
	ApplyBalanceDelta(ctx context.Context, id int64, delta decimal.Decimal) error
	LockForUpdate(ctx context.Context, id int64) (*Position, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrPositionNotFound indicates a missing fund position
type ErrPositionNotFound struct {
	PositionID int64
}

func (e ErrPositionNotFound) Error() string {
	return fmt.Sprintf("fund position not found: %d", e.PositionID)
}
