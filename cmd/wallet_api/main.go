package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gcoin-wallet-engine/internal/config"
	"github.com/gcoin-wallet-engine/internal/data/mongo"
	"github.com/gcoin-wallet-engine/internal/data/postgres"
	"github.com/gcoin-wallet-engine/internal/domain/fees"
	"github.com/gcoin-wallet-engine/internal/logger"
	"github.com/gcoin-wallet-engine/internal/platform/messaging/producers"
	"github.com/gcoin-wallet-engine/internal/platform/persistence"
	"github.com/gcoin-wallet-engine/internal/wallet_api"
	"github.com/gcoin-wallet-engine/internal/wallet_api/service"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("wallet_api")
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

	// Initialize Kafka producer (publishes to the transfer request topic)
	kafkaProducer, err := producers.NewTransferReqMessageProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize Kafka producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	transferRepo := mongo.NewTransferRepository(log, mongoDB.Database())

	// One calculator instance backs quotes and initiation checks
	calculator := fees.NewCalculator(
		cfg.Wallet.DailyLimit,
		cfg.Wallet.StakingAnnualRate,
		cfg.Wallet.EarlyWithdrawalPenalty,
	)

	// Initialize services
	accountService := service.NewAccountService(accountRepo)
	transferService := service.NewTransferService(log, accountRepo, transferRepo, calculator, kafkaProducer)
	quoteService := service.NewQuoteService(calculator)

	// Initialize REST server
	server := wallet_api.NewServer(log, cfg, accountService, transferService, quoteService)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
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

	// Shutdown HTTP server first so in-flight requests can still reach storage
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if err = kafkaProducer.Close(); err != nil {
		log.Error("Error closing Kafka producer", "error", err)
	}

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
