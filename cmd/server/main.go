package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/openfx/backoffice/internal/adapter/http"
	"github.com/openfx/backoffice/internal/adapter/http/handler"
	"github.com/openfx/backoffice/internal/adapter/http/middleware"
	postgresRepo "github.com/openfx/backoffice/internal/adapter/repository/postgres"
	redisRepo "github.com/openfx/backoffice/internal/adapter/repository/redis"
	"github.com/openfx/backoffice/internal/infrastructure/config"
	"github.com/openfx/backoffice/internal/infrastructure/logger"
	"github.com/openfx/backoffice/internal/infrastructure/metrics"
	"github.com/openfx/backoffice/internal/infrastructure/postgres"
	"github.com/openfx/backoffice/internal/infrastructure/redis"
	"github.com/openfx/backoffice/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	journalRepo := postgresRepo.NewJournalRepository(pool)
	stockRepo := postgresRepo.NewStockRepository(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	movementTypeRepo := postgresRepo.NewMovementTypeRepository(pool)
	currencyRepo := postgresRepo.NewCurrencyRepository(pool)
	clientRepo := postgresRepo.NewClientRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	paramStore := redisRepo.NewParameterStore(redisClient, cfg.ParamCacheTTL)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()
	appMetrics := metrics.New()

	// Initialize use cases
	transactionUC := usecase.NewTransactionUseCase(
		txManager, journalRepo, stockRepo, accountRepo,
		movementTypeRepo, currencyRepo, clientRepo, paramStore, idGen,
	).WithRetrier(retrier).WithMetrics(appMetrics)
	journalUC := usecase.NewJournalUseCase(journalRepo, clientRepo, paramStore)
	stockUC := usecase.NewStockUseCase(stockRepo)
	accountUC := usecase.NewAccountUseCase(accountRepo, clientRepo)
	catalogUC := usecase.NewCatalogUseCase(currencyRepo, clientRepo, movementTypeRepo, idGen)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(transactionUC, auditRepo, idGen),
		JournalHandler:     handler.NewJournalHandler(journalUC),
		StockHandler:       handler.NewStockHandler(stockUC),
		AccountHandler:     handler.NewAccountHandler(accountUC),
		CatalogHandler:     handler.NewCatalogHandler(catalogUC),
		SettingsHandler:    handler.NewSettingsHandler(paramStore),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:   idempotencyStore,
		RateLimiter:        middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
