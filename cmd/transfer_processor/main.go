package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gcoin-wallet-engine/internal/config"
	"github.com/gcoin-wallet-engine/internal/data/mongo"
	"github.com/gcoin-wallet-engine/internal/data/postgres"
	"github.com/gcoin-wallet-engine/internal/domain/fees"
	"github.com/gcoin-wallet-engine/internal/logger"
	"github.com/gcoin-wallet-engine/internal/platform/messaging/consumers"
	"github.com/gcoin-wallet-engine/internal/platform/messaging/producers"
	"github.com/gcoin-wallet-engine/internal/platform/persistence"
	"github.com/gcoin-wallet-engine/internal/transfer_processor/components"
	"github.com/gcoin-wallet-engine/internal/transfer_processor/consumer"
	"github.com/gcoin-wallet-engine/internal/transfer_processor/outbox_poller"
	"github.com/gcoin-wallet-engine/internal/transfer_processor/service"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("transfer_processor")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Transfer Processor",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

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

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	transferRepo := mongo.NewTransferRepository(log, mongoDB.Database())

	// Initialize Kafka consumer
	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka)

	// Initialize Kafka DLQ producer
	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}
	// dlqProducer might be nil if DLQTopic is not configured. Handler should be nil-safe.

	// Initialize Kafka producer for terminal transfer events
	eventsProducer, err := producers.NewTransferEventsProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize transfer events Kafka producer", "error", err)
		os.Exit(1)
	}

	// Same calculator parameters as the gateway, so re-validation accepts
	// every quoted fee
	calculator := fees.NewCalculator(
		cfg.Wallet.DailyLimit,
		cfg.Wallet.StakingAnnualRate,
		cfg.Wallet.EarlyWithdrawalPenalty,
	)

	// Initialize orchestration service with separated concerns
	orchestrationService := components.CreateOrchestrationService(
		accountRepo,
		transferRepo,
		outboxRepo,
		calculator,
		log,
		cfg,
	)

	// Initialize transfer event handler
	transferEventHandler := consumer.NewTransferEventHandler(
		log,
		orchestrationService,
		dlqProducer,
	)

	// Initialize outbox poller
	eventPublisher := outbox_poller.NewEventPublisher(
		outboxRepo,
		eventsProducer,
		log,
	)
	poller := outbox_poller.NewPoller(
		&cfg.Outbox,
		outboxRepo,
		eventPublisher,
		log,
	)

	// Create error channel for service errors
	errChan := make(chan error, 2)

	// Create wait group for graceful shutdown
	var wg sync.WaitGroup

	// Start Kafka consumer in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting Kafka consumer",
			"topic", cfg.Kafka.TransferTopic,
			"group", cfg.Kafka.ConsumerGroup,
		)
		if err := kafkaConsumer.Subscribe(appCtx, cfg.Kafka.TransferTopic, cfg.Kafka.ConsumerGroup, transferEventHandler.HandleMessage); err != nil {
			errChan <- fmt.Errorf("kafka consumer error: %w", err)
		}
	}()

	// Start outbox poller in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting Outbox Poller",
			"interval", cfg.Outbox.PollingInterval.String(),
			"batch_size", cfg.Outbox.BatchSize,
		)
		poller.Start(appCtx)
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

	// Shutdown the worker pool if it's a WorkerPoolOrchestrationService
	if wpService, ok := orchestrationService.(*service.WorkerPoolOrchestrationService); ok {
		log.Info("Shutting down worker pool", "running_workers", wpService.Running())
		wpService.Shutdown()
	}

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

	// Close DLQ Kafka producer
	if dlqProducer != nil { // dlqProducer can be nil if DLQTopic was not configured
		if err = dlqProducer.Close(); err != nil {
			log.Error("Error closing DLQ Kafka producer", "error", err)
		}
	}

	// Close transfer events producer
	if err = eventsProducer.Close(); err != nil {
		log.Error("Error closing transfer events Kafka producer", "error", err)
	}

	// Close Kafka consumer
	if err = kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Close MongoDB connection
	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serviceErr != nil {
		log.Error("Transfer Processor shutdown with errors", "error", serviceErr)
	}
	if err != nil {
		log.Error("Transfer Processor shutdown completed with errors")
	} else {
		log.Info("Transfer Processor shutdown completed successfully")
	}
}
