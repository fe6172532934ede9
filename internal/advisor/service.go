package advisor

import (
	"context"
	"strings"
	"time"

	"github.com/Sunay4826/AI-finance-platform/internal/cache"
	"github.com/Sunay4826/AI-finance-platform/internal/core"
	"github.com/Sunay4826/AI-finance-platform/internal/log"
	"github.com/Sunay4826/AI-finance-platform/internal/storage"
)

// Store is the ledger data the advisor reads to build prompts.
type Store interface {
	GetAccount(ctx context.Context, userID, accountID string) (*core.Account, error)
	GetBudget(ctx context.Context, userID string) (*core.Budget, error)
	ListTransactions(ctx context.Context, userID string, opts storage.ListOptions) ([]core.Transaction, error)
}

// Config carries the advisor settings. An empty APIKey yields a
// disabled service whose methods return core.ErrAdvisorDisabled.
type Config struct {
	APIKey            string
	ReceiptRetryDelay time.Duration
	CacheTTL          time.Duration
}

// Service implements suggestion generation and receipt extraction on
// top of a Client. Suggestion results are cached per account and
// invalidated whenever that account's ledger changes.
type Service struct {
	client    Client
	store     Store
	cache     *cache.LRU[*Suggestions]
	baseDelay time.Duration
	enabled   bool
	logger    *log.Logger

	// test seams
	now   func() time.Time
	sleep func(time.Duration)
}

func NewService(cfg Config, client Client, store Store, logger *log.Logger) *Service {
	baseDelay := cfg.ReceiptRetryDelay
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Service{
		client:    client,
		store:     store,
		cache:     cache.NewLRU[*Suggestions](256, ttl),
		baseDelay: baseDelay,
		enabled:   cfg.APIKey != "",
		logger:    logger.WithComponent(log.ComponentAdvisor),
		now:       time.Now,
		sleep:     time.Sleep,
	}
}

// Enabled reports whether an API key was configured.
func (s *Service) Enabled() bool { return s.enabled }

// InvalidateAccount drops any cached suggestions for the account. It is
// called after every ledger mutation touching the account.
func (s *Service) InvalidateAccount(accountID string) {
	s.cache.Delete(accountID)
}

// stripCodeFences removes a surrounding markdown code fence, with or
// without a language tag, which models add despite being told not to.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], "{[") {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
