package http

import (
	"time"

	"github.com/Sunay4826/AI-finance-platform/internal/core"
	"github.com/Sunay4826/AI-finance-platform/internal/services"
)

// Amounts cross the wire as decimal strings with two fraction digits.

type accountResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	Balance          string `json:"balance"`
	IsDefault        bool   `json:"isDefault"`
	TransactionCount int64  `json:"transactionCount"`
	CreatedAt        string `json:"createdAt"`
}

func toAccountResponse(a *core.Account) accountResponse {
	return accountResponse{
		ID:               a.ID,
		Name:             a.Name,
		Type:             string(a.Type),
		Balance:          a.Balance.StringFixed(2),
		IsDefault:        a.IsDefault,
		TransactionCount: a.TransactionCount,
		CreatedAt:        a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toAccountResponses(accounts []core.Account) []accountResponse {
	out := make([]accountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, toAccountResponse(&accounts[i]))
	}
	return out
}

type transactionResponse struct {
	ID                string `json:"id"`
	AccountID         string `json:"accountId"`
	Type              string `json:"type"`
	Amount            string `json:"amount"`
	Date              string `json:"date"`
	Category          string `json:"category"`
	Description       string `json:"description,omitempty"`
	IsRecurring       bool   `json:"isRecurring"`
	RecurringInterval string `json:"recurringInterval,omitempty"`
	NextRecurringDate string `json:"nextRecurringDate,omitempty"`
	CreatedAt         string `json:"createdAt"`
	UpdatedAt         string `json:"updatedAt"`
}

func toTransactionResponse(t *core.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Type:        string(t.Type),
		Amount:      t.Amount.StringFixed(2),
		Date:        t.Date.UTC().Format(time.RFC3339),
		Category:    t.Category,
		Description: t.Description,
		IsRecurring: t.IsRecurring,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if t.IsRecurring {
		resp.RecurringInterval = string(t.RecurringInterval)
		if t.NextRecurringDate != nil {
			resp.NextRecurringDate = t.NextRecurringDate.UTC().Format(time.RFC3339)
		}
	}
	return resp
}

func toTransactionResponses(transactions []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(transactions))
	for i := range transactions {
		out = append(out, toTransactionResponse(&transactions[i]))
	}
	return out
}

type budgetUsageResponse struct {
	Amount          string `json:"amount,omitempty"`
	CurrentExpenses string `json:"currentExpenses"`
	UpdatedAt       string `json:"updatedAt,omitempty"`
}

func toBudgetUsageResponse(u *services.BudgetUsage) budgetUsageResponse {
	resp := budgetUsageResponse{CurrentExpenses: "0.00"}
	if u == nil {
		return resp
	}
	resp.CurrentExpenses = u.CurrentExpenses.StringFixed(2)
	if u.Budget != nil {
		resp.Amount = u.Budget.Amount.StringFixed(2)
		resp.UpdatedAt = u.Budget.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
