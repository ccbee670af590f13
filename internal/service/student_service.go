package service

import (
	"context"

	"github.com/school-finance-ledger/internal/domain/student"
)

// StudentServiceImpl implements the StudentService interface
type StudentServiceImpl struct {
	studentRepo student.Repository
}

// NewStudentService creates a new student service
func NewStudentService(studentRepo student.Repository) StudentService {
	return &StudentServiceImpl{
		studentRepo: studentRepo,
	}
}

// CreateStudent registers a new student. The repository translates a NIS
// uniqueness violation into ErrDuplicateNIS.
func (s *StudentServiceImpl) CreateStudent(ctx context.Context, input CreateStudentInput) (*student.Student, error) {
	st, err := student.NewStudent(input.NIS, input.Name, input.Grade, input.ClassName)
	if err != nil {
		return nil, err
	}
	st.Phone = input.Phone
	st.ParentPhone = input.ParentPhone
	st.Address = input.Address

	if err := s.studentRepo.Create(ctx, st); err != nil {
		return nil, err
	}

	return st, nil
}

// GetStudentByID retrieves a student by its ID, returns ErrStudentNotFound if not found
func (s *StudentServiceImpl) GetStudentByID(ctx context.Context, id int64) (*student.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// GetStudents lists students matching the filter
func (s *StudentServiceImpl) GetStudents(ctx context.Context, filter student.Filter) ([]*student.Student, error) {
	return s.studentRepo.List(ctx, filter)
}
