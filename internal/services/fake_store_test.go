package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Sunay4826/AI-finance-platform/internal/core"
	"github.com/Sunay4826/AI-finance-platform/internal/storage"
)

// fakeStore is an in-memory Store with the same semantics the SQLite
// repository guarantees: ownership checks map to core.ErrNotFound,
// balance adjustments are relative increments applied atomically with
// the row write, and user creation enforces external id uniqueness.
type fakeStore struct {
	mu           sync.Mutex
	users        map[string]*core.User // keyed by external id
	accounts     map[string]*core.Account
	transactions map[string]*core.Transaction
	budgetRows   map[string]*core.Budget
	nextID       int

	// error injection
	failListAccounts     error
	failListTransactions error
	failSumExpenses      error
	failCreateUser       error
	conflictOnCreateUser bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        make(map[string]*core.User),
		accounts:     make(map[string]*core.Account),
		transactions: make(map[string]*core.Transaction),
		budgetRows:   make(map[string]*core.Budget),
	}
}

func (f *fakeStore) genID() string {
	f.nextID++
	return fmt.Sprintf("id-%d", f.nextID)
}

func (f *fakeStore) addAccount(userID, name string, balance decimal.Decimal, isDefault bool) *core.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := &core.Account{
		ID:        f.genID(),
		UserID:    userID,
		Name:      name,
		Type:      core.AccountChecking,
		Balance:   balance,
		IsDefault: isDefault,
		CreatedAt: time.Now(),
	}
	f.accounts[a.ID] = a
	return a
}

func (f *fakeStore) balance(accountID string) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts[accountID].Balance
}

func (f *fakeStore) FindUserByExternalID(_ context.Context, externalID string) (*core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[externalID]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeStore) CreateUser(_ context.Context, u *core.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreateUser != nil {
		return f.failCreateUser
	}
	if f.conflictOnCreateUser {
		// Simulates a concurrent insert winning the race: the row exists
		// by the time our insert runs.
		f.conflictOnCreateUser = false
		f.users[u.ExternalID] = &core.User{
			ID:         f.genID(),
			ExternalID: u.ExternalID,
			Name:       "winner",
			CreatedAt:  time.Now(),
		}
		return core.ErrConflict
	}
	if _, exists := f.users[u.ExternalID]; exists {
		return core.ErrConflict
	}
	if u.ID == "" {
		u.ID = f.genID()
	}
	u.CreatedAt = time.Now()
	copied := *u
	f.users[u.ExternalID] = &copied
	return nil
}

func (f *fakeStore) CreateAccount(_ context.Context, a *core.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == "" {
		a.ID = f.genID()
	}
	hasAny := false
	for _, existing := range f.accounts {
		if existing.UserID == a.UserID {
			hasAny = true
			break
		}
	}
	if !hasAny {
		a.IsDefault = true
	}
	if a.IsDefault {
		for _, existing := range f.accounts {
			if existing.UserID == a.UserID {
				existing.IsDefault = false
			}
		}
	}
	a.CreatedAt = time.Now()
	copied := *a
	f.accounts[a.ID] = &copied
	return nil
}

func (f *fakeStore) GetAccount(_ context.Context, userID, accountID string) (*core.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[accountID]
	if !ok || a.UserID != userID {
		return nil, core.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeStore) ListAccounts(_ context.Context, userID string) ([]core.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failListAccounts != nil {
		return nil, f.failListAccounts
	}
	var out []core.Account
	for _, a := range f.accounts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// applyAdjustments mutates balances under the lock already held by the
// caller. Mirrors the repository's relative-increment updates.
func (f *fakeStore) applyAdjustments(userID string, adjs []core.BalanceAdjustment) error {
	for _, adj := range adjs {
		if adj.Delta.IsZero() {
			continue
		}
		a, ok := f.accounts[adj.AccountID]
		if !ok || a.UserID != userID {
			return core.ErrNotFound
		}
		a.Balance = a.Balance.Add(adj.Delta)
	}
	return nil
}

func (f *fakeStore) CreateTransaction(_ context.Context, t *core.Transaction, adj core.BalanceAdjustment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[t.AccountID]
	if !ok || a.UserID != t.UserID {
		return core.ErrNotFound
	}
	if t.ID == "" {
		t.ID = f.genID()
	}
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	if err := f.applyAdjustments(t.UserID, []core.BalanceAdjustment{adj}); err != nil {
		return err
	}
	copied := *t
	f.transactions[t.ID] = &copied
	return nil
}

func (f *fakeStore) UpdateTransaction(_ context.Context, t *core.Transaction, adjs []core.BalanceAdjustment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.transactions[t.ID]
	if !ok || existing.UserID != t.UserID {
		return core.ErrNotFound
	}
	if err := f.applyAdjustments(t.UserID, adjs); err != nil {
		return err
	}
	t.UpdatedAt = time.Now()
	copied := *t
	f.transactions[t.ID] = &copied
	return nil
}

func (f *fakeStore) DeleteTransaction(_ context.Context, userID, transactionID string, adj core.BalanceAdjustment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.transactions[transactionID]
	if !ok || existing.UserID != userID {
		return core.ErrNotFound
	}
	if err := f.applyAdjustments(userID, []core.BalanceAdjustment{adj}); err != nil {
		return err
	}
	delete(f.transactions, transactionID)
	return nil
}

func (f *fakeStore) GetTransaction(_ context.Context, userID, transactionID string) (*core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.transactions[transactionID]
	if !ok || t.UserID != userID {
		return nil, core.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeStore) ListTransactions(_ context.Context, userID string, opts storage.ListOptions) ([]core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failListTransactions != nil {
		return nil, f.failListTransactions
	}
	var out []core.Transaction
	for _, t := range f.transactions {
		if t.UserID != userID {
			continue
		}
		if opts.AccountID != "" && t.AccountID != opts.AccountID {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (f *fakeStore) SumExpenses(_ context.Context, userID, accountID string, from, to time.Time) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSumExpenses != nil {
		return decimal.Zero, f.failSumExpenses
	}
	sum := decimal.Zero
	for _, t := range f.transactions {
		if t.UserID != userID || t.Type != core.TransactionExpense {
			continue
		}
		if accountID != "" && t.AccountID != accountID {
			continue
		}
		if t.Date.Before(from) || !t.Date.Before(to) {
			continue
		}
		sum = sum.Add(t.Amount)
	}
	return sum, nil
}

func (f *fakeStore) ListDueRecurring(_ context.Context, now time.Time, limit int) ([]core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Transaction
	for _, t := range f.transactions {
		if !t.IsRecurring || t.NextRecurringDate == nil {
			continue
		}
		if t.NextRecurringDate.After(now) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].NextRecurringDate.Before(*out[j].NextRecurringDate)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) AdvanceRecurring(_ context.Context, userID, transactionID string, next time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.transactions[transactionID]
	if !ok || t.UserID != userID {
		return core.ErrNotFound
	}
	due := next
	t.NextRecurringDate = &due
	t.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) GetBudget(_ context.Context, userID string) (*core.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.budgetRows[userID]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeStore) UpsertBudget(_ context.Context, b *core.Budget) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b.UpdatedAt = time.Now()
	copied := *b
	f.budgetRows[b.UserID] = &copied
	return nil
}

var _ Store = (*fakeStore)(nil)
