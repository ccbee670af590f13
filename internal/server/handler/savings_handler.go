package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/school-finance-ledger/internal/domain/savings"
	"github.com/school-finance-ledger/internal/service"
)

// SavingsHandler handles HTTP requests for student savings
type SavingsHandler struct {
	savingsService service.SavingsService
	logger         *slog.Logger
}

// NewSavingsHandler creates a new savings handler
func NewSavingsHandler(logger *slog.Logger, savingsService service.SavingsService) *SavingsHandler {
	return &SavingsHandler{
		savingsService: savingsService,
		logger:         logger,
	}
}

// CreateTransaction applies a deposit or withdrawal to a student's savings
func (h *SavingsHandler) CreateTransaction(c *gin.Context) {
	var req CreateSavingsTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	t, err := h.savingsService.CreateSavingsTransaction(c.Request.Context(), service.SavingsTransactionInput{
		StudentID:   req.StudentID,
		Type:        savings.TransactionType(req.Type),
		Amount:      req.Amount,
		Description: req.Description,
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		h.logger.Error("Failed to create savings transaction", "student_id", req.StudentID, "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondCreated(c, t)
}

// GetByStudentID retrieves a student's savings with its history. A student
// with no savings yet yields a null data field, not a 404.
func (h *SavingsHandler) GetByStudentID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		RespondBadRequest(c, "Invalid student ID")
		return
	}

	result, err := h.savingsService.GetStudentSavings(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get student savings", "student_id", id, "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, result)
}
