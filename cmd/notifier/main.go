package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/school-finance-ledger/internal/config"
	"github.com/school-finance-ledger/internal/data/postgres"
	"github.com/school-finance-ledger/internal/logger"
	"github.com/school-finance-ledger/internal/notifier"
	"github.com/school-finance-ledger/internal/platform/messaging/consumers"
	"github.com/school-finance-ledger/internal/platform/persistence"
)

const whatsappDeliveryDelay = 200 * time.Millisecond

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("notifier")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting WhatsApp notifier",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Initialize database with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Initialize repository
	notificationRepo := postgres.NewNotificationRepository(log, postgresDB)

	// Initialize Kafka consumer
	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka)

	// Initialize dispatcher over the worker pool
	sender := notifier.NewSimulatedWhatsAppSender(log, whatsappDeliveryDelay)
	dispatcher, err := notifier.NewDispatcher(
		log,
		notifier.DispatcherConfig{PoolSize: cfg.Notifier.PoolSize},
		sender,
		notificationRepo,
	)
	if err != nil {
		log.Error("Failed to initialize dispatcher", "error", err)
		os.Exit(1)
	}

	// Initialize event handler and sweeper
	eventHandler := notifier.NewDispatchEventHandler(log, dispatcher)
	sweeper := notifier.NewSweeper(&cfg.Notifier, notificationRepo, dispatcher, log)

	// Create error channel for service errors
	errChan := make(chan error, 2)

	// Create wait group for graceful shutdown
	var wg sync.WaitGroup

	// Start Kafka consumer in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting Kafka consumer",
			"topic", cfg.Kafka.NotificationTopic,
			"group", cfg.Kafka.ConsumerGroup,
		)
		if err := kafkaConsumer.Subscribe(appCtx, cfg.Kafka.NotificationTopic, cfg.Kafka.ConsumerGroup, eventHandler.HandleMessage); err != nil {
			errChan <- fmt.Errorf("kafka consumer error: %w", err)
		}
	}()

	// Start pending sweep in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		sweeper.Start(appCtx)
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Shutdown the worker pool
	dispatcher.Shutdown()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Wait for all goroutines to finish
	log.Info("Waiting for services to stop...")
	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("All services stopped successfully")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	// Close Kafka consumer
	if err = kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Final status
	if serviceErr != nil {
		log.Error("Notifier shutdown with errors", "error", serviceErr)
	}
	if err != nil {
		log.Error("Notifier shutdown completed with errors")
	} else {
		log.Info("Notifier shutdown completed successfully")
	}
}
