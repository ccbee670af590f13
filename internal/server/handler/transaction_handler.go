package handler

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/school-finance-ledger/internal/domain/ledger"
	"github.com/school-finance-ledger/internal/service"
)

// TransactionHandler handles HTTP requests for the transaction log
type TransactionHandler struct {
	reconciliationService service.ReconciliationService
	logger                *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, reconciliationService service.ReconciliationService) *TransactionHandler {
	return &TransactionHandler{
		reconciliationService: reconciliationService,
		logger:                logger,
	}
}

// Create records a manual ledger entry
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	t, err := h.reconciliationService.RecordTransaction(c.Request.Context(), service.RecordTransactionInput{
		Type:             ledger.Type(req.Type),
		Amount:           req.Amount,
		Description:      req.Description,
		ReferenceNumber:  req.ReferenceNumber,
		AccountID:        req.AccountID,
		FundPositionID:   req.FundPositionID,
		StudentPaymentID: req.StudentPaymentID,
		CreatedBy:        req.CreatedBy,
	})
	if err != nil {
		h.logger.Error("Failed to record transaction", "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondCreated(c, t)
}

// Transfer moves money between two accounts
func (h *TransactionHandler) Transfer(c *gin.Context) {
	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.reconciliationService.CreateTransfer(c.Request.Context(), service.CreateTransferInput{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Description:   req.Description,
		CreatedBy:     req.CreatedBy,
	})
	if err != nil {
		h.logger.Error("Failed to create transfer", "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondCreated(c, result)
}

// GetByID retrieves a log row by its ID, returning 404 if not found
func (h *TransactionHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	t, err := h.reconciliationService.GetTransactionByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get transaction", "id", id, "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, t)
}

// List retrieves log rows filtered by type, account and date range,
// newest first
func (h *TransactionHandler) List(c *gin.Context) {
	filter := ledger.Filter{
		Type: ledger.Type(c.Query("type")),
	}
	if raw := c.Query("account_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			RespondBadRequest(c, "Invalid account_id")
			return
		}
		filter.AccountID = id
	}
	if raw := c.Query("date_from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			RespondBadRequest(c, "Invalid date_from, expected RFC 3339")
			return
		}
		filter.DateFrom = t
	}
	if raw := c.Query("date_to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			RespondBadRequest(c, "Invalid date_to, expected RFC 3339")
			return
		}
		filter.DateTo = t
	}

	var page ledger.Page
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			RespondBadRequest(c, "Invalid limit")
			return
		}
		page.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			RespondBadRequest(c, "Invalid offset")
			return
		}
		page.Offset = offset
	}

	transactions, err := h.reconciliationService.GetTransactions(c.Request.Context(), filter, page)
	if err != nil {
		h.logger.Error("Failed to list transactions", "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, transactions)
}
