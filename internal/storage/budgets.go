package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Sunay4826/AI-finance-platform/internal/core"
)

// GetBudget returns the user's budget row, or (nil, nil) when no cap is
// configured. Absence is not an error: callers must distinguish "unset"
// from any configured amount.
func (r *SQLiteRepository) GetBudget(ctx context.Context, userID string) (*core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, amount_cents, updated_at FROM budgets WHERE user_id = ?`, userID)

	var b core.Budget
	var cents, updatedAt int64
	err := row.Scan(&b.UserID, &cents, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	b.Amount = core.FromCents(cents)
	b.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &b, nil
}

// UpsertBudget creates the user's single budget row or overwrites its
// amount.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b *core.Budget) error {
	cents, err := core.Cents(b.Amount)
	if err != nil {
		return err
	}
	b.UpdatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO budgets (user_id, amount_cents, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET amount_cents = excluded.amount_cents, updated_at = excluded.updated_at`,
		b.UserID, cents, b.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget upserted", "user_id", b.UserID, "amount", b.Amount.String())
	return nil
}
