package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/school-finance-ledger/internal/domain/student"
	"github.com/school-finance-ledger/internal/service"
)

// StudentHandler handles HTTP requests for student operations
type StudentHandler struct {
	studentService service.StudentService
	logger         *slog.Logger
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(logger *slog.Logger, studentService service.StudentService) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
		logger:         logger,
	}
}

// Create handles student registration, rejecting duplicate NIS values
func (h *StudentHandler) Create(c *gin.Context) {
	var req CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	st, err := h.studentService.CreateStudent(c.Request.Context(), service.CreateStudentInput{
		NIS:         req.NIS,
		Name:        req.Name,
		Grade:       student.Grade(req.Grade),
		ClassName:   req.ClassName,
		Phone:       req.Phone,
		ParentPhone: req.ParentPhone,
		Address:     req.Address,
	})
	if err != nil {
		h.logger.Error("Failed to create student", "nis", req.NIS, "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondCreated(c, st)
}

// GetByID retrieves a student by its ID, returning 404 if not found
func (h *StudentHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		RespondBadRequest(c, "Invalid student ID")
		return
	}

	st, err := h.studentService.GetStudentByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get student", "id", id, "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, st)
}

// List retrieves students filtered by grade, class, status and search term
func (h *StudentHandler) List(c *gin.Context) {
	filter := student.Filter{
		Grade:     student.Grade(c.Query("grade")),
		ClassName: c.Query("class_name"),
		Status:    student.Status(c.Query("status")),
		Search:    c.Query("search"),
	}

	students, err := h.studentService.GetStudents(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list students", "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, students)
}
