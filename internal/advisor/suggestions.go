package advisor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Sunay4826/AI-finance-platform/internal/core"
	"github.com/Sunay4826/AI-finance-platform/internal/log"
	"github.com/Sunay4826/AI-finance-platform/internal/storage"
)

const suggestionHistoryLimit = 50

// Suggestion is a single actionable recommendation.
type Suggestion struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Impact string `json:"impact"` // low, medium or high
}

// Suggestions is the advisor's answer for one account.
type Suggestions struct {
	Summary     string       `json:"summary"`
	Suggestions []Suggestion `json:"suggestions"`
	Reminders   []string     `json:"reminders"`
}

type promptTransaction struct {
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

type promptSnapshot struct {
	AccountName  string              `json:"accountName"`
	AccountType  string              `json:"accountType"`
	Balance      string              `json:"balance"`
	Budget       string              `json:"budget,omitempty"`
	Transactions []promptTransaction `json:"transactions"`
}

// GenerateSuggestions asks the advisor for spending recommendations
// based on the account's balance, the user's budget and the most recent
// transactions. The call is made at most once; a response that does not
// parse as the expected JSON is a terminal error. Results are cached
// per account until the next ledger mutation or TTL expiry.
func (s *Service) GenerateSuggestions(ctx context.Context, userID, accountID string) (*Suggestions, error) {
	if !s.enabled {
		return nil, core.ErrAdvisorDisabled
	}

	// Ownership is checked before the cache so a cached result never
	// leaks to a caller who does not own the account.
	account, err := s.store.GetAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	if cached, ok := s.cache.Get(accountID); ok {
		return cached, nil
	}

	budget, err := s.store.GetBudget(ctx, userID)
	if err != nil {
		return nil, err
	}
	transactions, err := s.store.ListTransactions(ctx, userID, storage.ListOptions{
		AccountID: accountID,
		Limit:     suggestionHistoryLimit,
	})
	if err != nil {
		return nil, err
	}

	snapshot := promptSnapshot{
		AccountName:  account.Name,
		AccountType:  string(account.Type),
		Balance:      account.Balance.StringFixed(2),
		Transactions: make([]promptTransaction, 0, len(transactions)),
	}
	if budget != nil {
		snapshot.Budget = budget.Amount.StringFixed(2)
	}
	for _, t := range transactions {
		snapshot.Transactions = append(snapshot.Transactions, promptTransaction{
			Type:        string(t.Type),
			Amount:      t.Amount.StringFixed(2),
			Date:        t.Date.Format("2006-01-02"),
			Category:    t.Category,
			Description: t.Description,
		})
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encoding advisor snapshot: %w", err)
	}

	content, err := s.client.Complete(ctx, Request{
		Prompt:      suggestionsPrompt + string(data),
		Temperature: 0.4,
	})
	if err != nil {
		return nil, err
	}

	var result Suggestions
	if err := json.Unmarshal([]byte(stripCodeFences(content)), &result); err != nil {
		s.logger.WarnContext(ctx, "unparseable suggestions payload",
			log.FieldAccountID, accountID, log.FieldError, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	s.cache.Set(accountID, &result)
	return &result, nil
}

const suggestionsPrompt = `You are a personal finance advisor. Analyze the account snapshot below and respond with concise, practical advice.

Respond with ONLY valid JSON in exactly this shape, no markdown, no code fences:
{
  "summary": "one paragraph overview of spending health",
  "suggestions": [
    {"title": "short title", "detail": "one or two sentences", "impact": "low|medium|high"}
  ],
  "reminders": ["short reminder strings"]
}

Account snapshot:
`
