// Package postgres provides PostgreSQL implementations of the domain repositories.
// It handles all database operations while maintaining transaction safety and
// proper error handling for the school finance ledger.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/school-finance-ledger/internal/domain/student"
	"github.com/school-finance-ledger/internal/platform/persistence"
)

// StudentRepository implements the student.Repository interface for PostgreSQL
type StudentRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewStudentRepository creates a new PostgreSQL student repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewStudentRepository(logger *slog.Logger, db *persistence.PostgresDB) student.Repository {
	return &StudentRepository{
		querier: db.Pool(), // Initialize with the pool
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic operations
// across multiple repository calls.
func (r *StudentRepository) WithTx(tx pgx.Tx) student.Repository {
	return &StudentRepository{
		querier: tx, // Use the transaction
		logger:  r.logger,
	}
}

// Create stores a new student. A NIS uniqueness violation is translated to
// student.ErrDuplicateNIS.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	query := `
		INSERT INTO students (nis, name, grade, class_name, phone, parent_phone, address, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		s.NIS,
		s.Name,
		s.Grade,
		s.ClassName,
		s.Phone,
		s.ParentPhone,
		s.Address,
		s.Status,
		s.CreatedAt,
		s.UpdatedAt,
	).Scan(&s.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return student.ErrDuplicateNIS{NIS: s.NIS}
		}
		r.logger.Error("Failed to create student", "nis", s.NIS, "error", err)
		return fmt.Errorf("failed to create student: %w", err)
	}

	return nil
}

// GetByID retrieves a student by its ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*student.Student, error) {
	query := `
		SELECT id, nis, name, grade, class_name, phone, parent_phone, address, status, created_at, updated_at
		FROM students
		WHERE id = $1
	`

	var s student.Student
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.NIS,
		&s.Name,
		&s.Grade,
		&s.ClassName,
		&s.Phone,
		&s.ParentPhone,
		&s.Address,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, student.ErrStudentNotFound{StudentID: id}
		}
		r.logger.Error("Failed to get student", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	return &s, nil
}

// List retrieves students matching the filter, ordered by name
func (r *StudentRepository) List(ctx context.Context, filter student.Filter) ([]*student.Student, error) {
	query := `
		SELECT id, nis, name, grade, class_name, phone, parent_phone, address, status, created_at, updated_at
		FROM students
		WHERE 1=1
	`
	var args []interface{}

	if filter.Grade != "" {
		args = append(args, filter.Grade)
		query += fmt.Sprintf(" AND grade = $%d", len(args))
	}
	if filter.ClassName != "" {
		args = append(args, filter.ClassName)
		query += fmt.Sprintf(" AND class_name = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (name ILIKE $%d OR nis ILIKE $%d)", len(args), len(args))
	}

	query += " ORDER BY name"

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list students", "error", err)
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []*student.Student
	for rows.Next() {
		var s student.Student
		if err := rows.Scan(
			&s.ID,
			&s.NIS,
			&s.Name,
			&s.Grade,
			&s.ClassName,
			&s.Phone,
			&s.ParentPhone,
			&s.Address,
			&s.Status,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan student row: %w", err)
		}
		students = append(students, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate student rows: %w", err)
	}

	return students, nil
}
