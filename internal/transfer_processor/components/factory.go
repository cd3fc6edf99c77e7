package components

import (
	"log/slog"

	"github.com/gcoin-wallet-engine/internal/config"
	"github.com/gcoin-wallet-engine/internal/domain/account"
	"github.com/gcoin-wallet-engine/internal/domain/fees"
	"github.com/gcoin-wallet-engine/internal/domain/outbox"
	"github.com/gcoin-wallet-engine/internal/domain/transfer"
	"github.com/gcoin-wallet-engine/internal/transfer_processor/service"
)

// CreateOrchestrationService creates a new OrchestrationService with all its
// dependencies.
func CreateOrchestrationService(
	accountRepo account.Repository,
	transferRepo transfer.Repository,
	outboxRepo outbox.Repository,
	calculator *fees.Calculator,
	logger *slog.Logger,
	cfg *config.Config,
) service.OrchestrationService {
	validator := NewTransferValidator(transferRepo, calculator, logger)
	resolver := NewAddressResolver(accountRepo, logger)
	provisioner := NewAccountProvisioner(accountRepo, logger)
	mutator := NewLedgerMutator(accountRepo, cfg.Wallet.FeeWalletAddress, logger)
	outboxManager := NewOutboxManager(outboxRepo, logger)

	baseService := service.NewOrchestrator(
		transferRepo,
		validator,
		resolver,
		provisioner,
		mutator,
		outboxManager,
		logger,
	)

	workerPoolService, err := service.NewWorkerPoolOrchestrationService(
		baseService,
		service.WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)

	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool orchestration service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
