package handler

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/school-finance-ledger/internal/domain/account"
	"github.com/school-finance-ledger/internal/service"
)

// AccountHandler handles HTTP requests for accounts and fund positions
type AccountHandler struct {
	accountService service.AccountService
	fundService    service.FundService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService, fundService service.FundService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		fundService:    fundService,
		logger:         logger,
	}
}

// Create handles creation of a new account
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.accountService.CreateAccount(c.Request.Context(), req.Name, account.Type(req.Type), req.BankName, req.AccountNumber, req.OpeningBalance)
	if err != nil {
		h.logger.Error("Failed to create account", "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondCreated(c, acc)
}

// GetByID retrieves an account by its ID, returning 404 if not found
func (h *AccountHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	acc, err := h.accountService.GetAccountByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get account", "id", id, "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, acc)
}

// List retrieves accounts; ?active_only=true restricts to active ones
func (h *AccountHandler) List(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"

	accounts, err := h.accountService.GetAccounts(c.Request.Context(), activeOnly)
	if err != nil {
		h.logger.Error("Failed to list accounts", "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, accounts)
}

// CreateFundPosition handles creation of a new fund pool
func (h *AccountHandler) CreateFundPosition(c *gin.Context) {
	var req CreateFundPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	p, err := h.fundService.CreateFundPosition(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		h.logger.Error("Failed to create fund position", "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondCreated(c, p)
}

// ListFundPositions retrieves all fund pools
func (h *AccountHandler) ListFundPositions(c *gin.Context) {
	positions, err := h.fundService.GetFundPositions(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list fund positions", "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, positions)
}

// parseIDParam parses the numeric :id path parameter
func parseIDParam(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
