// events-worker consumes ledger events from AMQP and logs them. It is
// the attachment point for downstream sync and notification consumers.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Sunay4826/AI-finance-platform/internal/amqp"
	"github.com/Sunay4826/AI-finance-platform/internal/config"
	"github.com/Sunay4826/AI-finance-platform/internal/log"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.Config{
		Level:     log.DefaultConfig().Level,
		Component: log.ComponentAMQP,
	})
	log.SetDefault(logger)

	cfg := config.Load()
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for events-worker")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	logger.Info("Starting events-worker", "queue", cfg.AMQPQueue)
	err = client.ConsumeLedgerEvents(ctx, func(msg *amqp.LedgerEventMessage) error {
		logger.Info("Ledger event received",
			log.FieldTransactionID, msg.TransactionID,
			log.FieldAccountID, msg.AccountID,
			log.FieldUserID, msg.UserID,
			"action", msg.Action)
		return nil
	})
	if err != nil && ctx.Err() == nil {
		logger.Error("Consumer stopped", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Events-worker shutdown complete")
}
