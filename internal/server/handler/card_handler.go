package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/school-finance-ledger/internal/service"
)

// CardHandler handles HTTP requests for SPP cards
type CardHandler struct {
	cardService service.CardService
	logger      *slog.Logger
}

// NewCardHandler creates a new card handler
func NewCardHandler(logger *slog.Logger, cardService service.CardService) *CardHandler {
	return &CardHandler{
		cardService: cardService,
		logger:      logger,
	}
}

// Generate issues a new active card for a student, deactivating prior ones
func (h *CardHandler) Generate(c *gin.Context) {
	var req GenerateSppCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	issued, err := h.cardService.GenerateSppCard(c.Request.Context(), req.StudentID)
	if err != nil {
		h.logger.Error("Failed to generate spp card", "student_id", req.StudentID, "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondCreated(c, issued)
}

// Scan resolves a barcode to the student and their payment history. An
// unknown or inactive barcode yields 404.
func (h *CardHandler) Scan(c *gin.Context) {
	barcode := c.Param("barcode")
	if barcode == "" {
		RespondBadRequest(c, "Barcode is required")
		return
	}

	result, err := h.cardService.ScanBarcode(c.Request.Context(), barcode)
	if err != nil {
		h.logger.Error("Failed to scan barcode", "barcode", barcode, "error", err)
		RespondServiceError(c, err)
		return
	}
	if result == nil {
		RespondNotFound(c, "Card not found or inactive")
		return
	}

	RespondOK(c, result)
}
