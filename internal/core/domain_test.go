package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validTransaction() Transaction {
	return Transaction{
		Type:     TransactionExpense,
		Amount:   decimal.NewFromFloat(12.50),
		Date:     time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		Category: "groceries",
	}
}

func TestTransactionValidate(t *testing.T) {
	if err := validTransaction().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"zero amount", func(tx *Transaction) { tx.Amount = decimal.Zero }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-5) }, ErrInvalidAmount},
		{"bad type", func(tx *Transaction) { tx.Type = "TRANSFER" }, ErrInvalidType},
		{"zero date", func(tx *Transaction) { tx.Date = time.Time{} }, ErrInvalidDate},
		{"empty category", func(tx *Transaction) { tx.Category = "  " }, ErrEmptyCategory},
		{"recurring without interval", func(tx *Transaction) { tx.IsRecurring = true }, ErrInvalidInterval},
		{"recurring bad interval", func(tx *Transaction) {
			tx.IsRecurring = true
			tx.RecurringInterval = "HOURLY"
		}, ErrInvalidInterval},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := validTransaction()
			tc.mutate(&tx)
			err := tx.Validate()
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("%v should classify as ErrValidation", err)
			}
		})
	}
}

func TestTransactionSignedAmount(t *testing.T) {
	tx := validTransaction()
	tx.Type = TransactionIncome
	if got := tx.SignedAmount(); !got.Equal(decimal.NewFromFloat(12.50)) {
		t.Fatalf("income signed amount = %s", got)
	}
	tx.Type = TransactionExpense
	if got := tx.SignedAmount(); !got.Equal(decimal.NewFromFloat(-12.50)) {
		t.Fatalf("expense signed amount = %s", got)
	}
}

func TestAccountValidate(t *testing.T) {
	good := Account{Name: "Everyday", Type: AccountChecking}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Account{Name: "", Type: AccountSavings}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if err := (Account{Name: "x", Type: "BROKERAGE"}).Validate(); !errors.Is(err, ErrInvalidAccountType) {
		t.Fatalf("expected ErrInvalidAccountType, got %v", err)
	}
}

func TestRecurringIntervalValidate(t *testing.T) {
	for _, iv := range []RecurringInterval{IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalYearly} {
		if err := iv.Validate(); err != nil {
			t.Fatalf("%s: expected ok, got %v", iv, err)
		}
	}
	if err := RecurringInterval("monthly").Validate(); err == nil {
		t.Fatal("interval values are case sensitive")
	}
}
