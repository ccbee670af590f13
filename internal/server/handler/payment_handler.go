package handler

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/school-finance-ledger/internal/domain/payment"
	"github.com/school-finance-ledger/internal/domain/student"
	"github.com/school-finance-ledger/internal/service"
)

// PaymentHandler handles HTTP requests for billing configs, obligations and
// payment processing
type PaymentHandler struct {
	paymentService        service.PaymentService
	reconciliationService service.ReconciliationService
	logger                *slog.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(logger *slog.Logger, paymentService service.PaymentService, reconciliationService service.ReconciliationService) *PaymentHandler {
	return &PaymentHandler{
		paymentService:        paymentService,
		reconciliationService: reconciliationService,
		logger:                logger,
	}
}

// CreateConfig handles creation of a billing rule
func (h *PaymentHandler) CreateConfig(c *gin.Context) {
	var req CreatePaymentConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := service.CreatePaymentConfigInput{
		PaymentType:    payment.Type(req.PaymentType),
		Name:           req.Name,
		Description:    req.Description,
		Amount:         req.Amount,
		ClassName:      req.ClassName,
		StudentID:      req.StudentID,
		CanInstallment: req.CanInstallment,
	}
	if req.Grade != nil {
		g := student.Grade(*req.Grade)
		input.Grade = &g
	}

	cfg, err := h.paymentService.CreatePaymentConfig(c.Request.Context(), input)
	if err != nil {
		h.logger.Error("Failed to create payment config", "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondCreated(c, cfg)
}

// ListConfigs retrieves billing rules; ?active_only=true restricts to active
func (h *PaymentHandler) ListConfigs(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"

	configs, err := h.paymentService.GetPaymentConfigs(c.Request.Context(), activeOnly)
	if err != nil {
		h.logger.Error("Failed to list payment configs", "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, configs)
}

// Assign creates PENDING obligations under a billing rule
func (h *PaymentHandler) Assign(c *gin.Context) {
	var req AssignStudentPaymentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		parsed, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			RespondBadRequest(c, "Invalid due_date, expected RFC 3339")
			return
		}
		dueDate = &parsed
	}

	created, err := h.paymentService.AssignStudentPayments(c.Request.Context(), req.PaymentConfigID, req.StudentIDs, dueDate)
	if err != nil {
		h.logger.Error("Failed to assign student payments", "config_id", req.PaymentConfigID, "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondCreated(c, created)
}

// ListStudentPayments retrieves obligations filtered by student, status,
// grade, class and payment type
func (h *PaymentHandler) ListStudentPayments(c *gin.Context) {
	filter := payment.Filter{
		Status:      payment.Status(c.Query("status")),
		Grade:       student.Grade(c.Query("grade")),
		ClassName:   c.Query("class_name"),
		PaymentType: payment.Type(c.Query("payment_type")),
	}
	if raw := c.Query("student_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			RespondBadRequest(c, "Invalid student_id")
			return
		}
		filter.StudentID = id
	}

	payments, err := h.paymentService.GetStudentPayments(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list student payments", "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, payments)
}

// Process settles an amount against a student obligation
func (h *PaymentHandler) Process(c *gin.Context) {
	var req ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	t, err := h.reconciliationService.ProcessPayment(c.Request.Context(), service.ProcessPaymentInput{
		StudentPaymentID: req.StudentPaymentID,
		AccountID:        req.AccountID,
		Amount:           req.Amount,
		ReferenceNumber:  req.ReferenceNumber,
		CreatedBy:        req.CreatedBy,
	})
	if err != nil {
		h.logger.Error("Failed to process payment", "student_payment_id", req.StudentPaymentID, "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondCreated(c, t)
}
