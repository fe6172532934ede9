package services

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Sunay4826/AI-finance-platform/internal/core"
	"github.com/Sunay4826/AI-finance-platform/internal/storage"
)

// DashboardService composes the initial-display read: all accounts with
// transaction counts, all transactions newest-first, and budget usage
// for the default account if one exists.
//
// The dashboard always renders: any read failure degrades to empty
// collections instead of propagating, so callers must not treat an empty
// result as proof of "no data".
type DashboardService struct {
	store  Store
	budget *BudgetService
}

func NewDashboardService(store Store, budget *BudgetService) *DashboardService {
	return &DashboardService{store: store, budget: budget}
}

type DashboardData struct {
	Accounts     []core.Account
	Transactions []core.Transaction
	Budget       BudgetUsage
}

// Bootstrap fans out the account and transaction reads concurrently,
// then computes budget usage for the current month of the default
// account only.
func (s *DashboardService) Bootstrap(ctx context.Context, userID string) *DashboardData {
	data := &DashboardData{
		Accounts:     []core.Account{},
		Transactions: []core.Transaction{},
	}

	var (
		accounts     []core.Account
		transactions []core.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.store.ListAccounts(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.store.ListTransactions(gctx, userID, storage.ListOptions{})
		return err
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "Dashboard bootstrap degraded to empty",
			"user_id", userID,
			"error", err)
		return data
	}

	if accounts != nil {
		data.Accounts = accounts
	}
	if transactions != nil {
		data.Transactions = transactions
	}

	var defaultAccount *core.Account
	for i := range accounts {
		if accounts[i].IsDefault {
			defaultAccount = &accounts[i]
			break
		}
	}
	if defaultAccount == nil {
		return data
	}

	usage, err := s.budget.GetCurrentUsage(ctx, userID, defaultAccount.ID, time.Now())
	if err != nil {
		slog.ErrorContext(ctx, "Dashboard budget read degraded to empty",
			"user_id", userID,
			"account_id", defaultAccount.ID,
			"error", err)
		return data
	}
	data.Budget = *usage
	return data
}
