package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Sunay4826/AI-finance-platform/internal/amqp"
	"github.com/Sunay4826/AI-finance-platform/internal/core"
	"github.com/Sunay4826/AI-finance-platform/internal/storage"
)

// Store is the persistence contract the services depend on. The SQLite
// repository is the production implementation; tests substitute fakes.
//
// Mutating methods that take balance adjustments must apply the row
// write and every adjustment as one atomic commit unit, and must apply
// adjustments as relative increments so concurrent mutations against the
// same account never lose updates.
type Store interface {
	FindUserByExternalID(ctx context.Context, externalID string) (*core.User, error)
	CreateUser(ctx context.Context, u *core.User) error

	CreateAccount(ctx context.Context, a *core.Account) error
	GetAccount(ctx context.Context, userID, accountID string) (*core.Account, error)
	ListAccounts(ctx context.Context, userID string) ([]core.Account, error)

	CreateTransaction(ctx context.Context, t *core.Transaction, adj core.BalanceAdjustment) error
	UpdateTransaction(ctx context.Context, t *core.Transaction, adjs []core.BalanceAdjustment) error
	DeleteTransaction(ctx context.Context, userID, transactionID string, adj core.BalanceAdjustment) error
	GetTransaction(ctx context.Context, userID, transactionID string) (*core.Transaction, error)
	ListTransactions(ctx context.Context, userID string, opts storage.ListOptions) ([]core.Transaction, error)
	SumExpenses(ctx context.Context, userID, accountID string, from, to time.Time) (decimal.Decimal, error)

	ListDueRecurring(ctx context.Context, now time.Time, limit int) ([]core.Transaction, error)
	AdvanceRecurring(ctx context.Context, userID, transactionID string, next time.Time) error

	GetBudget(ctx context.Context, userID string) (*core.Budget, error)
	UpsertBudget(ctx context.Context, b *core.Budget) error
}

var _ Store = (*storage.SQLiteRepository)(nil)

// EventPublisher emits ledger events after a mutation commits. A nil
// publisher disables eventing; publish failures never fail the mutation.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error
}

// CacheInvalidator drops cached advisory results for an account whose
// ledger changed.
type CacheInvalidator interface {
	InvalidateAccount(accountID string)
}
