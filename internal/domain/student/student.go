package student

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrEmptyNIS  = errors.New("nis cannot be empty")
	ErrEmptyName = errors.New("student name cannot be empty")
)

// Grade identifies the school level a student belongs to
type Grade string

const (
	GradeTK  Grade = "TK"
	GradeSD  Grade = "SD"
	GradeSMP Grade = "SMP"
	GradeSMA Grade = "SMA"
	GradeSMK Grade = "SMK"
)

// Valid reports whether the grade is one of the known school levels
func (g Grade) Valid() bool {
	switch g {
	case GradeTK, GradeSD, GradeSMP, GradeSMA, GradeSMK:
		return true
	}
	return false
}

// Status tracks a student's enrollment state
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusGraduated Status = "GRADUATED"
)

// Student represents an enrolled student with billing identity (NIS)
type Student struct {
	ID          int64     `json:"id"`
	NIS         string    `json:"nis"`
	Name        string    `json:"name"`
	Grade       Grade     `json:"grade"`
	ClassName   string    `json:"class_name"`
	Phone       *string   `json:"phone"`
	ParentPhone *string   `json:"parent_phone"`
	Address     *string   `json:"address"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewStudent creates a student with explicit defaults applied
func NewStudent(nis, name string, grade Grade, className string) (*Student, error) {
	if nis == "" {
		return nil, ErrEmptyNIS
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	if !grade.Valid() {
		return nil, errors.New("invalid grade: " + string(grade))
	}

	now := time.Now()
	return &Student{
		NIS:       nis,
		Name:      name,
		Grade:     grade,
		ClassName: className,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
