package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Sunay4826/AI-finance-platform/internal/core"
)

// BudgetService aggregates monthly budget usage and maintains the single
// budget row per user.
type BudgetService struct {
	store   Store
	ceiling decimal.Decimal
}

func NewBudgetService(store Store, ceiling decimal.Decimal) *BudgetService {
	return &BudgetService{store: store, ceiling: ceiling}
}

// BudgetUsage reports a month's expense total against the configured
// cap. Budget is nil when no cap is configured; that is never an error
// and is distinct from any configured amount, since a zero cap is
// rejected by validation.
type BudgetUsage struct {
	Budget          *core.Budget
	CurrentExpenses decimal.Decimal
}

// GetCurrentUsage sums the user's expenses for the calendar month
// containing ref, optionally scoped to one account.
func (s *BudgetService) GetCurrentUsage(ctx context.Context, userID, accountID string, ref time.Time) (*BudgetUsage, error) {
	budget, err := s.store.GetBudget(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}

	from, to := monthWindow(ref)
	expenses, err := s.store.SumExpenses(ctx, userID, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("sum expenses: %w", err)
	}

	return &BudgetUsage{Budget: budget, CurrentExpenses: expenses}, nil
}

// SetBudget upserts the user's budget. Amounts outside (0, ceiling] are
// rejected.
func (s *BudgetService) SetBudget(ctx context.Context, userID string, amount decimal.Decimal) (*core.Budget, error) {
	if !amount.IsPositive() {
		return nil, core.ErrInvalidAmount
	}
	if amount.GreaterThan(s.ceiling) {
		return nil, core.ErrBudgetTooLarge
	}

	b := core.Budget{UserID: userID, Amount: amount}
	if err := s.store.UpsertBudget(ctx, &b); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Budget set", "user_id", userID, "amount", amount.String())
	return &b, nil
}

// monthWindow returns the half-open interval [first instant of ref's
// month, first instant of the next month) in ref's location.
func monthWindow(ref time.Time) (time.Time, time.Time) {
	from := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	return from, from.AddDate(0, 1, 0)
}
