package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Sunay4826/AI-finance-platform/internal/advisor"
	"github.com/Sunay4826/AI-finance-platform/internal/amqp"
	"github.com/Sunay4826/AI-finance-platform/internal/config"
	apphttp "github.com/Sunay4826/AI-finance-platform/internal/http"
	"github.com/Sunay4826/AI-finance-platform/internal/log"
	"github.com/Sunay4826/AI-finance-platform/internal/middleware/auth"
	"github.com/Sunay4826/AI-finance-platform/internal/middleware/ratelimit"
	"github.com/Sunay4826/AI-finance-platform/internal/services"
	"github.com/Sunay4826/AI-finance-platform/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			log.FieldError, err.Error(), "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, ledger events disabled", log.FieldError, err.Error())
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized")
		}
	} else {
		logger.Info("AMQP disabled, ledger events will not be published")
	}

	inferenceClient := advisor.NewHTTPClient(
		cfg.InferenceAPIKey, cfg.InferenceBaseURL, cfg.InferenceModel, cfg.InferenceTimeout, logger)
	advisorService := advisor.NewService(advisor.Config{
		APIKey:            cfg.InferenceAPIKey,
		ReceiptRetryDelay: cfg.ReceiptRetryDelay,
		CacheTTL:          cfg.SuggestionCacheTTL,
	}, inferenceClient, repo, logger)
	if !advisorService.Enabled() {
		logger.Info("Advisory pipeline disabled, no inference API key configured")
	}

	userService := services.NewUserService(repo)
	accountService := services.NewAccountService(repo)
	ledgerService := services.NewLedgerService(repo, eventPublisher(amqpClient), advisorService)
	budgetService := services.NewBudgetService(repo, cfg.BudgetCeiling)
	dashboardService := services.NewDashboardService(repo, budgetService)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Users:      userService,
		Accounts:   accountService,
		Ledger:     ledgerService,
		Budgets:    budgetService,
		Dashboard:  dashboardService,
		Advisor:    advisorService,
		JWTManager: auth.NewJWTManager(cfg.JWTSecret, 24*time.Hour),
		Limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMinute,
		}),
		Logger: logger,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
		cancel()
	}()

	logger.Info("Starting finance server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

// eventPublisher avoids handing the service a typed nil when AMQP is
// disabled.
func eventPublisher(client *amqp.Client) services.EventPublisher {
	if client == nil {
		return nil
	}
	return client
}
