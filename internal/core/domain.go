package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	AccountChecking AccountType = "CHECKING"
	AccountSavings  AccountType = "SAVINGS"

	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"

	IntervalDaily   RecurringInterval = "DAILY"
	IntervalWeekly  RecurringInterval = "WEEKLY"
	IntervalMonthly RecurringInterval = "MONTHLY"
	IntervalYearly  RecurringInterval = "YEARLY"
)

type (
	AccountType       string
	TransactionType   string
	RecurringInterval string

	// User is the local record for an identity-provider principal.
	// Created lazily the first time an authenticated request arrives for
	// an ExternalID not yet known locally.
	User struct {
		ID         string
		ExternalID string
		Name       string
		Email      string
		ImageURL   string
		CreatedAt  time.Time
	}

	// Account carries a cached balance that always equals the signed sum
	// of its surviving transactions. The ledger maintains it incrementally;
	// it is never recomputed from scratch during normal operation.
	Account struct {
		ID        string
		UserID    string
		Name      string
		Type      AccountType
		Balance   decimal.Decimal
		IsDefault bool
		CreatedAt time.Time

		// TransactionCount is populated on list reads only.
		TransactionCount int64
	}

	Transaction struct {
		ID                string
		UserID            string
		AccountID         string
		Type              TransactionType
		Amount            decimal.Decimal // always positive; the sign is carried by Type
		Date              time.Time
		Category          string
		Description       string
		IsRecurring       bool
		RecurringInterval RecurringInterval // set iff IsRecurring
		NextRecurringDate *time.Time        // derived, set iff IsRecurring
		CreatedAt         time.Time
		UpdatedAt         time.Time
	}

	// Budget is the single monthly spending cap per user. A missing row
	// means "no cap configured", which is distinct from a zero cap
	// (a zero cap is rejected by validation).
	Budget struct {
		UserID    string
		Amount    decimal.Decimal
		UpdatedAt time.Time
	}

	// BalanceAdjustment is a signed delta applied to one account's cached
	// balance as part of a ledger mutation's atomic commit unit.
	BalanceAdjustment struct {
		AccountID string
		Delta     decimal.Decimal
	}
)

func (t TransactionType) Validate() error {
	switch t {
	case TransactionIncome, TransactionExpense:
		return nil
	default:
		return ErrInvalidType
	}
}

func (t AccountType) Validate() error {
	switch t {
	case AccountChecking, AccountSavings:
		return nil
	default:
		return ErrInvalidAccountType
	}
}

func (iv RecurringInterval) Validate() error {
	switch iv {
	case IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalYearly:
		return nil
	default:
		return ErrInvalidInterval
	}
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if len(a.Name) > 100 {
		return fmt.Errorf("%w: name too long (max 100 characters)", ErrValidation)
	}
	return a.Type.Validate()
}

func (t Transaction) Validate() error {
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Description) > 200 {
		return fmt.Errorf("%w: description too long (max 200 characters)", ErrValidation)
	}
	if t.IsRecurring {
		if err := t.RecurringInterval.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SignedAmount is the delta this transaction applies to its account's
// balance: positive for income, negative for expense.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
