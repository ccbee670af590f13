package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/school-finance-ledger/internal/config"
	"github.com/school-finance-ledger/internal/data/mongo"
	"github.com/school-finance-ledger/internal/data/postgres"
	"github.com/school-finance-ledger/internal/logger"
	"github.com/school-finance-ledger/internal/platform/messaging/producers"
	"github.com/school-finance-ledger/internal/platform/persistence"
	"github.com/school-finance-ledger/internal/server"
	"github.com/school-finance-ledger/internal/service"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("server")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producer for the notification side channel
	notificationProducer, err := producers.NewNotificationProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize notification Kafka producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	fundRepo := postgres.NewFundRepository(log, postgresDB)
	studentRepo := postgres.NewStudentRepository(log, postgresDB)
	configRepo := postgres.NewPaymentConfigRepository(log, postgresDB)
	studentPaymentRepo := postgres.NewStudentPaymentRepository(log, postgresDB)
	transactionRepo := postgres.NewTransactionRepository(log, postgresDB)
	savingsRepo := postgres.NewSavingsRepository(log, postgresDB)
	cardRepo := postgres.NewCardRepository(log, postgresDB)
	notificationRepo := postgres.NewNotificationRepository(log, postgresDB)
	reportRepo := postgres.NewReportRepository(log, postgresDB)
	receiptArchive := mongo.NewReceiptRepository(log, mongoDB.Database())

	// Initialize services
	notificationService := service.NewNotificationService(notificationRepo, notificationProducer, log)
	printer := service.NewSimulatedPrinter(&cfg.Printer, rand.New(rand.NewSource(time.Now().UnixNano())), log)

	services := server.Services{
		Account: service.NewAccountService(accountRepo),
		Fund:    service.NewFundService(fundRepo),
		Student: service.NewStudentService(studentRepo),
		Payment: service.NewPaymentService(postgresDB, configRepo, studentPaymentRepo, studentRepo, log),
		Reconciliation: service.NewReconciliationService(
			postgresDB,
			transactionRepo,
			accountRepo,
			fundRepo,
			studentPaymentRepo,
			studentRepo,
			notificationService,
			log,
		),
		Savings: service.NewSavingsService(postgresDB, savingsRepo, studentRepo, log),
		Card:    service.NewCardService(postgresDB, cardRepo, studentRepo, studentPaymentRepo, log),
		Report:  service.NewReportService(reportRepo),
		Receipt: service.NewReceiptService(
			transactionRepo,
			accountRepo,
			studentPaymentRepo,
			configRepo,
			studentRepo,
			receiptArchive,
			printer,
			log,
		),
		Notification: notificationService,
	}

	// Initialize REST server
	srv := server.NewServer(log, cfg, services)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := srv.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server
	if err = srv.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if err = notificationProducer.Close(); err != nil {
		log.Error("Error closing Kafka producer", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
