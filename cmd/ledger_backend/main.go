package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/core/services"
	"github.com/SscSPs/finance_ledger_app/internal/handlers"
	"github.com/SscSPs/finance_ledger_app/internal/middleware"
	"github.com/SscSPs/finance_ledger_app/internal/platform/analytics"
	"github.com/SscSPs/finance_ledger_app/internal/platform/config"
	"github.com/SscSPs/finance_ledger_app/internal/platform/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"
)

// systemUserID is recorded as creator of accounts seeded at startup.
const systemUserID = "system"

// @title Finance Ledger API
// @version 1.0
// @description Ledger posting engine, bank statement ingestion and reconciliation.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx := context.Background()
	repos, closeRepos, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepos()

	serviceContainer := services.NewServiceContainer(cfg, repos)

	chart, err := config.LoadChartOfAccounts(cfg.ChartOfAccountsPath)
	if err != nil {
		logger.Warn("Chart of accounts not loaded, skipping seed", slog.String("error", err.Error()))
	} else {
		created, err := serviceContainer.Account.SeedChart(middleware.WithLogger(ctx, logger), chart, systemUserID)
		if err != nil {
			logger.Error("Failed to seed chart of accounts", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Chart of accounts seeded", slog.Int("created", created), slog.Int("total", len(chart)))
	}

	posthogClient := analytics.NewPosthogClient(cfg.PosthogAPIKey, "", logger)
	defer posthogClient.Close()

	uploadLimiter, err := newUploadLimiter(cfg.UploadRateLimit)
	if err != nil {
		logger.Error("Invalid upload rate limit", slog.String("rate", cfg.UploadRateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, handlers.Integrations{
		UploadLimiter: uploadLimiter,
		Posthog:       posthogClient,
	})

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newUploadLimiter builds the per-IP limiter for statement uploads, e.g. "20-M".
// An empty rate disables limiting.
func newUploadLimiter(formatted string) (*limiter.Limiter, error) {
	if formatted == "" {
		return nil, nil
	}
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	return limiter.New(limitermemory.NewStore(), rate), nil
}
