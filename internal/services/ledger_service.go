package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Sunay4826/AI-finance-platform/internal/amqp"
	"github.com/Sunay4826/AI-finance-platform/internal/core"
	"github.com/Sunay4826/AI-finance-platform/internal/storage"
)

// LedgerService is the single writer of transactions and account
// balances. Every mutation applies the transaction row and the signed
// balance delta as one atomic commit unit, so the cached balance always
// equals the signed sum of surviving transactions.
type LedgerService struct {
	store  Store
	events EventPublisher   // optional
	cache  CacheInvalidator // optional
}

func NewLedgerService(store Store, events EventPublisher, cache CacheInvalidator) *LedgerService {
	return &LedgerService{store: store, events: events, cache: cache}
}

// TransactionInput carries the caller-supplied fields of a create or a
// full-replace update.
type TransactionInput struct {
	AccountID         string
	Type              core.TransactionType
	Amount            decimal.Decimal
	Date              time.Time
	Category          string
	Description       string
	IsRecurring       bool
	RecurringInterval core.RecurringInterval
}

func (in TransactionInput) build(userID string) (core.Transaction, error) {
	t := core.Transaction{
		UserID:            userID,
		AccountID:         in.AccountID,
		Type:              in.Type,
		Amount:            in.Amount,
		Date:              in.Date,
		Category:          in.Category,
		Description:       in.Description,
		IsRecurring:       in.IsRecurring,
		RecurringInterval: in.RecurringInterval,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if t.IsRecurring {
		next, err := core.NextRecurringDate(t.Date, t.RecurringInterval)
		if err != nil {
			return core.Transaction{}, err
		}
		t.NextRecurringDate = &next
	}
	return t, nil
}

// CreateTransaction validates the input, derives the next recurring due
// date if needed, and commits the row insert together with the signed
// balance delta. An account outside the caller's ownership fails with
// core.ErrNotFound.
func (s *LedgerService) CreateTransaction(ctx context.Context, userID string, in TransactionInput) (*core.Transaction, error) {
	t, err := in.build(userID)
	if err != nil {
		return nil, err
	}

	adj := core.BalanceAdjustment{AccountID: t.AccountID, Delta: t.SignedAmount()}
	if err := s.store.CreateTransaction(ctx, &t, adj); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Transaction created",
		"transaction_id", t.ID,
		"account_id", t.AccountID,
		"type", string(t.Type),
		"amount", t.Amount.String(),
		"balance_delta", adj.Delta.String())

	s.afterMutation(ctx, &t, amqp.ActionCreated)
	return &t, nil
}

// UpdateTransaction replaces the stored fields and adjusts balances by
// the net delta. When the owning account changes, the old signed amount
// is removed from the source account and the new signed amount applied
// to the destination, both inside the same commit unit.
func (s *LedgerService) UpdateTransaction(ctx context.Context, userID, transactionID string, in TransactionInput) (*core.Transaction, error) {
	existing, err := s.store.GetTransaction(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	updated, err := in.build(userID)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	oldDelta := existing.SignedAmount()
	newDelta := updated.SignedAmount()

	var adjs []core.BalanceAdjustment
	if updated.AccountID == existing.AccountID {
		adjs = []core.BalanceAdjustment{
			{AccountID: updated.AccountID, Delta: newDelta.Sub(oldDelta)},
		}
	} else {
		// Destination must exist and belong to the caller before we
		// touch anything.
		if _, err := s.store.GetAccount(ctx, userID, updated.AccountID); err != nil {
			return nil, err
		}
		adjs = []core.BalanceAdjustment{
			{AccountID: existing.AccountID, Delta: oldDelta.Neg()},
			{AccountID: updated.AccountID, Delta: newDelta},
		}
	}

	if err := s.store.UpdateTransaction(ctx, &updated, adjs); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Transaction updated",
		"transaction_id", updated.ID,
		"account_id", updated.AccountID,
		"moved_account", updated.AccountID != existing.AccountID)

	s.afterMutation(ctx, existing, amqp.ActionUpdated)
	if updated.AccountID != existing.AccountID {
		s.afterMutation(ctx, &updated, amqp.ActionUpdated)
	}
	return &updated, nil
}

// DeleteTransaction removes the row and reverses its signed amount on
// the owning account in one commit unit.
func (s *LedgerService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	existing, err := s.store.GetTransaction(ctx, userID, transactionID)
	if err != nil {
		return err
	}

	adj := core.BalanceAdjustment{
		AccountID: existing.AccountID,
		Delta:     existing.SignedAmount().Neg(),
	}
	if err := s.store.DeleteTransaction(ctx, userID, transactionID, adj); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Transaction deleted",
		"transaction_id", transactionID,
		"account_id", existing.AccountID,
		"balance_delta", adj.Delta.String())

	s.afterMutation(ctx, existing, amqp.ActionDeleted)
	return nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, userID, transactionID string) (*core.Transaction, error) {
	return s.store.GetTransaction(ctx, userID, transactionID)
}

func (s *LedgerService) ListTransactions(ctx context.Context, userID string, opts storage.ListOptions) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx, userID, opts)
}

// afterMutation runs the non-essential side effects of a committed
// mutation: cache invalidation and event publishing. Neither may fail
// the call.
func (s *LedgerService) afterMutation(ctx context.Context, t *core.Transaction, action string) {
	if s.cache != nil {
		s.cache.InvalidateAccount(t.AccountID)
	}
	if s.events == nil {
		return
	}
	msg := amqp.NewLedgerEventMessage(t.ID, t.AccountID, t.UserID, action)
	if err := s.events.PublishLedgerEvent(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"transaction_id", t.ID,
			"action", action,
			"error", err)
	}
}
