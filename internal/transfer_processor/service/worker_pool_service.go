package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/gcoin-wallet-engine/internal/domain/shared"
)

// WorkerPoolOrchestrationService implements the OrchestrationService interface
type WorkerPoolOrchestrationService struct {
	baseService OrchestrationService
	pool        *ants.Pool
	logger      *slog.Logger
	// Use a mutex to protect access to the results map
	mu      sync.Mutex
	results map[string]chan error
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolOrchestrationService(
	baseService OrchestrationService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolOrchestrationService, error) {
	// Create a new worker pool with the specified size
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolOrchestrationService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
		results:     make(map[string]chan error),
	}, nil
}

// ProcessTransfer submits a transfer to the worker pool for processing.
func (s *WorkerPoolOrchestrationService) ProcessTransfer(ctx context.Context, request *shared.TransferRequest) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Submitting transfer to worker pool",
		"transfer_id", request.TransferID.String(),
		"sender_wallet", request.SenderWallet,
	)

	// Create a channel to receive the result of the transfer processing
	resultChan := make(chan error, 1)

	// Store the result channel in the result map
	transferID := request.TransferID.String()
	s.mu.Lock()
	s.results[transferID] = resultChan
	s.mu.Unlock()

	// Create a copy of the request to avoid data races
	requestCopy := *request

	// Submit the task to the worker pool
	err := s.pool.Submit(func() {
		// Process the transfer using the base service
		err := s.baseService.ProcessTransfer(ctx, &requestCopy)

		// Send the result to the channel
		resultChan <- err

		// Remove the result channel from the map
		s.mu.Lock()
		delete(s.results, transferID)
		close(resultChan)
		s.mu.Unlock()
	})

	if err != nil {
		// If we couldn't submit the task to the pool, remove the result channel
		s.mu.Lock()
		delete(s.results, transferID)
		close(resultChan)
		s.mu.Unlock()

		logger.Error("Failed to submit transfer to worker pool",
			"transfer_id", request.TransferID.String(),
			"error", err,
		)
		return err
	}

	// Wait for the result from the worker
	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolOrchestrationService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolOrchestrationService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolOrchestrationService) Capacity() int {
	return s.pool.Cap()
}
