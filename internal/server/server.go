// Package server wires the HTTP surface of the ledger: gin router,
// middleware and the handlers over the service layer.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/school-finance-ledger/internal/config"
	"github.com/school-finance-ledger/internal/server/handler"
	"github.com/school-finance-ledger/internal/service"
)

// Services bundles everything the HTTP surface depends on
type Services struct {
	Account        service.AccountService
	Fund           service.FundService
	Student        service.StudentService
	Payment        service.PaymentService
	Reconciliation service.ReconciliationService
	Savings        service.SavingsService
	Card           service.CardService
	Report         service.ReportService
	Receipt        service.ReceiptService
	Notification   service.NotificationService
}

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger // For structured logging
	httpServer *http.Server // Underlying HTTP server
	httpRouter *gin.Engine  // Gin router instance
}

// NewServer creates and configures a new HTTP server with the given services
func NewServer(log *slog.Logger, cfg *config.Config, services Services) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	setupRouter(log, httpRouter,
		handler.NewAccountHandler(log, services.Account, services.Fund),
		handler.NewStudentHandler(log, services.Student),
		handler.NewPaymentHandler(log, services.Payment, services.Reconciliation),
		handler.NewTransactionHandler(log, services.Reconciliation),
		handler.NewSavingsHandler(log, services.Savings),
		handler.NewCardHandler(log, services.Card),
		handler.NewReportHandler(log, services.Report),
		handler.NewReceiptHandler(log, services.Receipt),
		handler.NewNotificationHandler(log, services.Notification),
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server with a timeout
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.httpServer.WriteTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}

	return nil
}
