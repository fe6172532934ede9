package services

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Sunay4826/AI-finance-platform/internal/core"
)

// AccountService creates and reads accounts, enforcing the single-default
// invariant through the store: the first account is always the default,
// and requesting default later flips the previous default off.
type AccountService struct {
	store Store
}

func NewAccountService(store Store) *AccountService {
	return &AccountService{store: store}
}

type AccountInput struct {
	Name      string
	Type      core.AccountType
	Balance   decimal.Decimal // opening balance
	IsDefault bool
}

func (s *AccountService) CreateAccount(ctx context.Context, userID string, in AccountInput) (*core.Account, error) {
	a := core.Account{
		UserID:    userID,
		Name:      in.Name,
		Type:      in.Type,
		Balance:   in.Balance,
		IsDefault: in.IsDefault,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.CreateAccount(ctx, &a); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Account created",
		"account_id", a.ID,
		"user_id", userID,
		"type", string(a.Type),
		"is_default", a.IsDefault)
	return &a, nil
}

func (s *AccountService) GetAccount(ctx context.Context, userID, accountID string) (*core.Account, error) {
	return s.store.GetAccount(ctx, userID, accountID)
}

func (s *AccountService) ListAccounts(ctx context.Context, userID string) ([]core.Account, error) {
	return s.store.ListAccounts(ctx, userID)
}
