package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/school-finance-ledger/internal/domain/account"
	"github.com/school-finance-ledger/internal/domain/card"
	"github.com/school-finance-ledger/internal/domain/fund"
	"github.com/school-finance-ledger/internal/domain/ledger"
	"github.com/school-finance-ledger/internal/domain/payment"
	"github.com/school-finance-ledger/internal/domain/receipt"
	"github.com/school-finance-ledger/internal/domain/savings"
	"github.com/school-finance-ledger/internal/domain/student"
	"github.com/school-finance-ledger/internal/server/middleware"
)

// Response represents a standard API response
type Response struct {
	Data          interface{} `json:"data,omitempty"`
	Error         *ErrorInfo  `json:"error,omitempty"`
	CorrelationID string      `json:"correlation_id,omitempty"`
}

// ErrorInfo represents error information in a response
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewResponse creates a new response with data
func NewResponse(data interface{}) *Response {
	return &Response{
		Data: data,
	}
}

// NewErrorResponse creates a new error response
func NewErrorResponse(code, message string) *Response {
	return &Response{
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// RespondWithData sends a JSON response with data
func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	response := NewResponse(data)
	response.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(statusCode, response)
}

// RespondWithError sends a JSON response with an error
func RespondWithError(c *gin.Context, statusCode int, code, message string) {
	response := NewErrorResponse(code, message)
	response.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(statusCode, response)
}

// RespondOK sends a 200 OK response with data
func RespondOK(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusOK, data)
}

// RespondCreated sends a 201 Created response with data
func RespondCreated(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusCreated, data)
}

// RespondBadRequest sends a 400 Bad Request response with an error
func RespondBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// RespondNotFound sends a 404 Not Found response with an error
func RespondNotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, "NOT_FOUND", message)
}

// RespondConflict sends a 409 Conflict response with an error
func RespondConflict(c *gin.Context, message string) {
	RespondWithError(c, http.StatusConflict, "CONFLICT", message)
}

// RespondInternalError sends a 500 Internal Server Error response with an error
func RespondInternalError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An internal server error occurred")
}

// RespondServiceError maps domain errors to HTTP responses: missing rows to
// 404, rejected state transitions and uniqueness violations to 409,
// validation failures to 400, anything else to 500.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case isNotFound(err):
		RespondNotFound(c, err.Error())
	case isConflict(err):
		RespondConflict(c, err.Error())
	case isValidation(err):
		RespondBadRequest(c, err.Error())
	default:
		RespondInternalError(c)
	}
}

func isNotFound(err error) bool {
	var (
		accountNotFound        account.ErrAccountNotFound
		positionNotFound       fund.ErrPositionNotFound
		studentNotFound        student.ErrStudentNotFound
		configNotFound         payment.ErrConfigNotFound
		studentPaymentNotFound payment.ErrStudentPaymentNotFound
		transactionNotFound    ledger.ErrTransactionNotFound
		receiptNotFound        receipt.ErrReceiptNotFound
	)
	return errors.As(err, &accountNotFound) ||
		errors.As(err, &positionNotFound) ||
		errors.As(err, &studentNotFound) ||
		errors.As(err, &configNotFound) ||
		errors.As(err, &studentPaymentNotFound) ||
		errors.As(err, &transactionNotFound) ||
		errors.As(err, &receiptNotFound)
}

func isConflict(err error) bool {
	var (
		duplicateNIS        student.ErrDuplicateNIS
		exceedsRemaining    payment.ErrExceedsRemaining
		insufficientFunds   account.ErrInsufficientFunds
		insufficientBalance savings.ErrInsufficientBalance
		barcodeCollision    card.ErrBarcodeCollision
	)
	return errors.As(err, &duplicateNIS) ||
		errors.As(err, &exceedsRemaining) ||
		errors.As(err, &insufficientFunds) ||
		errors.As(err, &insufficientBalance) ||
		errors.As(err, &barcodeCollision)
}

func isValidation(err error) bool {
	return errors.Is(err, account.ErrEmptyName) ||
		errors.Is(err, account.ErrInvalidType) ||
		errors.Is(err, account.ErrNegativeBalance) ||
		errors.Is(err, fund.ErrEmptyName) ||
		errors.Is(err, student.ErrEmptyNIS) ||
		errors.Is(err, student.ErrEmptyName) ||
		errors.Is(err, payment.ErrEmptyName) ||
		errors.Is(err, payment.ErrInvalidAmount) ||
		errors.Is(err, payment.ErrInvalidType) ||
		errors.Is(err, ledger.ErrInvalidAmount) ||
		errors.Is(err, ledger.ErrInvalidType) ||
		errors.Is(err, ledger.ErrEmptyCreator) ||
		errors.Is(err, savings.ErrInvalidAmount)
}
