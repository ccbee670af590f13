package student

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Filter narrows student list queries; zero values mean "no filter"
type Filter struct {
	Grade     Grade
	ClassName string
	Status    Status
	Search    string // matches name or NIS, case-insensitive
}

// Repository defines student persistence operations
type Repository interface {
	Create(ctx context.Context, s *Student) error
	GetByID(ctx context.Context, id int64) (*Student, error)
	List(ctx context.Context, filter Filter) ([]*Student, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrStudentNotFound indicates a missing student
type ErrStudentNotFound struct {
	StudentID int64
}

func (e ErrStudentNotFound) Error() string {
	return fmt.Sprintf("student not found: %d", e.StudentID)
}

// ErrDuplicateNIS indicates a NIS uniqueness violation
type ErrDuplicateNIS struct {
	NIS string
}

func (e ErrDuplicateNIS) Error() string {
	return "student with NIS already exists: " + e.NIS
}
