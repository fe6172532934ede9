package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Sunay4826/AI-finance-platform/internal/core"
)

// RecurringProcessor materializes due recurring transactions: for every
// transaction whose next due date has passed it posts a fresh, one-off
// occurrence through the ledger and advances the template's due date.
// The engine itself only maintains due dates; this worker is the only
// thing that acts on them.
type RecurringProcessor struct {
	store     Store
	ledger    *LedgerService
	batchSize int
}

func NewRecurringProcessor(store Store, ledger *LedgerService, batchSize int) *RecurringProcessor {
	if batchSize < 1 {
		batchSize = 100
	}
	return &RecurringProcessor{store: store, ledger: ledger, batchSize: batchSize}
}

// ProcessDue posts every due occurrence and returns the number posted.
// Failures on individual templates are logged and skipped so one broken
// row cannot stall the rest of the batch.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	due, err := p.store.ListDueRecurring(ctx, now, p.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list due recurring: %w", err)
	}

	slog.InfoContext(ctx, "Processing due recurring transactions",
		"due", len(due),
		"as_of", now.Format(time.RFC3339))

	posted := 0
	for _, tmpl := range due {
		occurrence := TransactionInput{
			AccountID:   tmpl.AccountID,
			Type:        tmpl.Type,
			Amount:      tmpl.Amount,
			Date:        now,
			Category:    tmpl.Category,
			Description: tmpl.Description,
		}
		if _, err := p.ledger.CreateTransaction(ctx, tmpl.UserID, occurrence); err != nil {
			slog.ErrorContext(ctx, "Failed to post recurring occurrence",
				"transaction_id", tmpl.ID,
				"error", err)
			continue
		}

		next, err := core.NextRecurringDate(*tmpl.NextRecurringDate, tmpl.RecurringInterval)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to compute next due date",
				"transaction_id", tmpl.ID,
				"recurring_interval", string(tmpl.RecurringInterval),
				"error", err)
			continue
		}
		if err := p.store.AdvanceRecurring(ctx, tmpl.UserID, tmpl.ID, next); err != nil {
			slog.ErrorContext(ctx, "Failed to advance recurring due date",
				"transaction_id", tmpl.ID,
				"error", err)
			continue
		}

		posted++
		slog.InfoContext(ctx, "Posted recurring occurrence",
			"transaction_id", tmpl.ID,
			"account_id", tmpl.AccountID,
			"amount", tmpl.Amount.String(),
			"next_due", next.Format(time.RFC3339))
	}

	return posted, nil
}
