package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/school-finance-ledger/internal/server/handler"
	"github.com/school-finance-ledger/internal/server/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	accountHandler *handler.AccountHandler,
	studentHandler *handler.StudentHandler,
	paymentHandler *handler.PaymentHandler,
	transactionHandler *handler.TransactionHandler,
	savingsHandler *handler.SavingsHandler,
	cardHandler *handler.CardHandler,
	reportHandler *handler.ReportHandler,
	receiptHandler *handler.ReceiptHandler,
	notificationHandler *handler.NotificationHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", accountHandler.Create)
			accounts.GET("", accountHandler.List)
			accounts.GET("/:id", accountHandler.GetByID)
		}

		funds := v1.Group("/fund-positions")
		{
			funds.POST("", accountHandler.CreateFundPosition)
			funds.GET("", accountHandler.ListFundPositions)
		}

		students := v1.Group("/students")
		{
			students.POST("", studentHandler.Create)
			students.GET("", studentHandler.List)
			students.GET("/:id", studentHandler.GetByID)
			students.GET("/:id/savings", savingsHandler.GetByStudentID)
		}

		payments := v1.Group("/payments")
		{
			payments.POST("/configs", paymentHandler.CreateConfig)
			payments.GET("/configs", paymentHandler.ListConfigs)
			payments.POST("/assignments", paymentHandler.Assign)
			payments.GET("", paymentHandler.ListStudentPayments)
			payments.POST("/process", paymentHandler.Process)
		}

		transactions := v1.Group("/transactions")
		{
			transactions.POST("", transactionHandler.Create)
			transactions.POST("/transfers", transactionHandler.Transfer)
			transactions.GET("", transactionHandler.List)
			transactions.GET("/:id", transactionHandler.GetByID)
			transactions.POST("/:id/receipt", receiptHandler.Generate)
		}

		savings := v1.Group("/savings")
		{
			savings.POST("/transactions", savingsHandler.CreateTransaction)
		}

		cards := v1.Group("/spp-cards")
		{
			cards.POST("", cardHandler.Generate)
			cards.GET("/scan/:barcode", cardHandler.Scan)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/daily", reportHandler.Daily)
			reports.GET("/monthly", reportHandler.Monthly)
			reports.GET("/outstanding", reportHandler.Outstanding)
			reports.GET("/cash-position", reportHandler.CashPosition)
		}

		receipts := v1.Group("/receipts")
		{
			receipts.GET("/:number", receiptHandler.Get)
			receipts.POST("/print", receiptHandler.Print)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.POST("", notificationHandler.Create)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
