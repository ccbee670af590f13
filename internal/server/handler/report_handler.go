package handler

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/school-finance-ledger/internal/domain/student"
	"github.com/school-finance-ledger/internal/service"
)

// ReportHandler handles HTTP requests for the reporting aggregations
type ReportHandler struct {
	reportService service.ReportService
	logger        *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(logger *slog.Logger, reportService service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// Daily returns the cash movement totals for one calendar day.
// ?date=2006-01-02, default today.
func (h *ReportHandler) Daily(c *gin.Context) {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			RespondBadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	result, err := h.reportService.GetDailyReport(c.Request.Context(), date)
	if err != nil {
		h.logger.Error("Failed to build daily report", "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, result)
}

// Monthly returns the month's totals with income grouped by payment type.
// ?month=1..12&year=YYYY, default the current month.
func (h *ReportHandler) Monthly(c *gin.Context) {
	now := time.Now()
	month := int(now.Month())
	year := now.Year()

	if raw := c.Query("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			RespondBadRequest(c, "Invalid month, expected 1-12")
			return
		}
		month = m
	}
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			RespondBadRequest(c, "Invalid year")
			return
		}
		year = y
	}

	result, err := h.reportService.GetMonthlyReport(c.Request.Context(), time.Month(month), year)
	if err != nil {
		h.logger.Error("Failed to build monthly report", "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, result)
}

// Outstanding returns per-student unpaid obligations, optionally filtered
// by grade and class
func (h *ReportHandler) Outstanding(c *gin.Context) {
	result, err := h.reportService.GetOutstandingPayments(c.Request.Context(), student.Grade(c.Query("grade")), c.Query("class_name"))
	if err != nil {
		h.logger.Error("Failed to build outstanding report", "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, result)
}

// CashPosition returns account and fund balances with their grand total
func (h *ReportHandler) CashPosition(c *gin.Context) {
	result, err := h.reportService.GetCashPositionReport(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to build cash position report", "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, result)
}
