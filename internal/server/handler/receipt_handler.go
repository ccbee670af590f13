package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/school-finance-ledger/internal/service"
)

// ReceiptHandler handles HTTP requests for receipts
type ReceiptHandler struct {
	receiptService service.ReceiptService
	logger         *slog.Logger
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(logger *slog.Logger, receiptService service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		logger:         logger,
	}
}

// Generate builds and archives the receipt for a transaction
func (h *ReceiptHandler) Generate(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	rec, err := h.receiptService.GenerateReceipt(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to generate receipt", "transaction_id", id, "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondCreated(c, rec)
}

// Get retrieves an archived receipt by its receipt number
func (h *ReceiptHandler) Get(c *gin.Context) {
	number := c.Param("number")

	rec, err := h.receiptService.GetReceipt(c.Request.Context(), number)
	if err != nil {
		h.logger.Error("Failed to get receipt", "receipt_number", number, "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, rec)
}

// Print sends an archived receipt to the printer. Printer failures are
// reported in the result body, not as HTTP errors.
func (h *ReceiptHandler) Print(c *gin.Context) {
	var req PrintReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.Copies == 0 {
		req.Copies = 1
	}

	rec, err := h.receiptService.GetReceipt(c.Request.Context(), req.ReceiptNumber)
	if err != nil {
		h.logger.Error("Failed to get receipt for printing", "receipt_number", req.ReceiptNumber, "error", err)
		RespondServiceError(c, err)
		return
	}

	result, err := h.receiptService.PrintReceipt(c.Request.Context(), rec, req.Copies)
	if err != nil {
		h.logger.Error("Failed to print receipt", "receipt_number", req.ReceiptNumber, "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, result)
}
