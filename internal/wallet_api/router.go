package wallet_api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcoin-wallet-engine/internal/wallet_api/handler"
	"github.com/gcoin-wallet-engine/internal/wallet_api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	accountHandler *handler.AccountHandler,
	transferHandler *handler.TransferHandler,
	quoteHandler *handler.QuoteHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Account operations
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", accountHandler.Register)
			accounts.GET("/:wallet", accountHandler.GetByWalletAddress)
			accounts.GET("/:wallet/transfers", transferHandler.GetByWallet)
		}

		// Transfer operations
		transfers := v1.Group("/transfers")
		{
			transfers.POST("", transferHandler.Create)
			transfers.GET("/:id", transferHandler.GetByID)
		}

		// Quote operations
		quotes := v1.Group("/quotes")
		{
			quotes.GET("/fee", quoteHandler.GetFee)
			quotes.GET("/limit", quoteHandler.GetLimit)
			quotes.GET("/staking-reward", quoteHandler.GetStakingReward)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
