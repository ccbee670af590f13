package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// DefaultListLimit bounds unpaginated transaction list queries
const DefaultListLimit = 50

// Filter narrows transaction list queries. Date bounds are inclusive on
// both ends; zero values mean "no filter".
type Filter struct {
	Type      Type
	AccountID int64
	DateFrom  time.Time
	DateTo    time.Time
}

// Page describes offset pagination for list queries
type Page struct {
	Limit  int
	Offset int
}

// Normalize applies the default limit and clamps a negative offset
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultListLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Repository defines transaction log persistence operations. The log is
// append-only: there is deliberately no update or delete.
type Repository interface {
	Insert(ctx context.Context, t *Transaction) error
	GetByID(ctx context.Context, id int64) (*Transaction, error)
	List(ctx context.Context, filter Filter, page Page) ([]*Transaction, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrTransactionNotFound indicates a missing log row
type ErrTransactionNotFound struct {
	TransactionID int64
}

func (e ErrTransactionNotFound) Error() string {
	return fmt.Sprintf("transaction not found: %d", e.TransactionID)
}
