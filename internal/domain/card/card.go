package card

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// SppCard links a student to a scannable barcode. A student has at most one
// active card; issuing a new card deactivates all prior ones in the same
// atomic unit.
type SppCard struct {
	ID        int64     `json:"id"`
	StudentID int64     `json:"student_id"`
	Barcode   string    `json:"barcode"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Barcode builds the card barcode for a student. The millisecond timestamp
// keeps reissued cards unique across a student's history.
func Barcode(studentID int64, issuedAt time.Time) string {
	return fmt.Sprintf("SPP%06d%d", studentID, issuedAt.UnixMilli())
}

// Repository defines SPP card persistence operations
type Repository interface {
	// DeactivateForStudent bulk-deactivates every active card of the student
	DeactivateForStudent(ctx context.Context, studentID int64) error
	Insert(ctx context.Context, c *SppCard) error

	// GetActiveByBarcode returns nil, nil for unknown or inactive barcodes
	GetActiveByBarcode(ctx context.Context, barcode string) (*SppCard, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrBarcodeCollision indicates a barcode uniqueness violation at insert
type ErrBarcodeCollision struct {
	Barcode string
}

func (e ErrBarcodeCollision) Error() string {
	return "spp card barcode already exists: " + e.Barcode
}
