package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// Auth: HS256 secret shared with the identity provider
	JWTSecret string

	// AMQP (optional; empty URL disables ledger event publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Inference service (OpenAI-compatible API). An empty key disables
	// the advisory pipeline rather than failing startup.
	InferenceAPIKey    string
	InferenceBaseURL   string
	InferenceModel     string
	InferenceTimeout   time.Duration
	ReceiptRetryDelay  time.Duration
	SuggestionCacheTTL time.Duration

	// Budget
	BudgetCeiling decimal.Decimal

	// Rate limiting (per authenticated user)
	RateLimitPerMinute int

	// Recurring worker
	RecurringInterval  time.Duration
	RecurringBatchSize int
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8081"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/finance.db"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finance"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),

		InferenceAPIKey:    getEnv("OPENAI_API_KEY", ""),
		InferenceBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		InferenceModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		InferenceTimeout:   getEnvDuration("INFERENCE_TIMEOUT", 30*time.Second),
		ReceiptRetryDelay:  getEnvDuration("RECEIPT_RETRY_BASE_DELAY", 2*time.Second),
		SuggestionCacheTTL: getEnvDuration("SUGGESTION_CACHE_TTL", 10*time.Minute),

		BudgetCeiling: getEnvDecimal("BUDGET_CEILING", decimal.NewFromInt(1_000_000_000)),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		RecurringInterval:  getEnvDuration("RECURRING_INTERVAL", time.Hour),
		RecurringBatchSize: getEnvInt("RECURRING_BATCH_SIZE", 100),
	}
}

// Validate validates the configuration and returns an error listing
// every problem found.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
			}
		}
	}

	if c.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET is required")
	} else if len(c.JWTSecret) < 16 {
		errs = append(errs, "JWT_SECRET must be at least 16 characters")
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.InferenceAPIKey != "" {
		if parsed, err := url.Parse(c.InferenceBaseURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
			errs = append(errs, fmt.Sprintf("invalid inference base URL '%s'", c.InferenceBaseURL))
		}
		if c.InferenceModel == "" {
			errs = append(errs, "inference model cannot be empty when an API key is provided")
		}
	}
	if c.InferenceTimeout < time.Second {
		errs = append(errs, fmt.Sprintf("invalid inference timeout %v: must be at least 1 second", c.InferenceTimeout))
	}

	if !c.BudgetCeiling.IsPositive() {
		errs = append(errs, fmt.Sprintf("invalid budget ceiling %s: must be positive", c.BudgetCeiling))
	}

	if c.RateLimitPerMinute < 1 {
		errs = append(errs, fmt.Sprintf("invalid rate limit %d: must be at least 1", c.RateLimitPerMinute))
	}

	if c.RecurringInterval < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid recurring interval %v: must be at least 1 minute", c.RecurringInterval))
	}
	if c.RecurringBatchSize < 1 {
		errs = append(errs, fmt.Sprintf("invalid recurring batch size %d: must be at least 1", c.RecurringBatchSize))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}
