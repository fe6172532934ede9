package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Sunay4826/AI-finance-platform/internal/core"
)

// ListOptions narrows a transaction list read.
type ListOptions struct {
	AccountID string // empty = all accounts
	Limit     int    // 0 = no limit
}

// CreateTransaction inserts the transaction row and applies the balance
// adjustment as one atomic commit unit: a failure between the two writes
// leaves neither applied.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t *core.Transaction, adj core.BalanceAdjustment) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	amount, err := core.Cents(t.Amount)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Ownership gate: the account row must belong to the caller. A
	// foreign account is indistinguishable from a missing one.
	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM accounts WHERE id = ? AND user_id = ?`, t.AccountID, t.UserID).Scan(&one)
	if err == sql.ErrNoRows {
		return core.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check account ownership: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO transactions
			(id, user_id, account_id, type, amount_cents, date, category, description,
			 is_recurring, recurring_interval, next_recurring_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.AccountID, string(t.Type), amount, t.Date.Unix(), t.Category, t.Description,
		boolToInt(t.IsRecurring), nullString(string(t.RecurringInterval)), nullTime(t.NextRecurringDate),
		t.CreatedAt.Unix(), t.UpdatedAt.Unix()); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	if err := applyBalanceAdjustments(ctx, tx, t.UserID, []core.BalanceAdjustment{adj}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction create: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"transaction_id", t.ID,
		"account_id", t.AccountID,
		"type", string(t.Type),
		"amount", t.Amount.String())
	return nil
}

// UpdateTransaction rewrites the transaction row and applies every
// balance adjustment (one account normally, two when the transaction
// moved between accounts) in a single atomic commit unit.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t *core.Transaction, adjs []core.BalanceAdjustment) error {
	t.UpdatedAt = time.Now().UTC()

	amount, err := core.Cents(t.Amount)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE transactions SET
			account_id = ?, type = ?, amount_cents = ?, date = ?, category = ?, description = ?,
			is_recurring = ?, recurring_interval = ?, next_recurring_date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		t.AccountID, string(t.Type), amount, t.Date.Unix(), t.Category, t.Description,
		boolToInt(t.IsRecurring), nullString(string(t.RecurringInterval)), nullTime(t.NextRecurringDate),
		t.UpdatedAt.Unix(), t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("update transaction rows: %w", err)
	} else if n == 0 {
		return core.ErrNotFound
	}

	if err := applyBalanceAdjustments(ctx, tx, t.UserID, adjs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction update: %w", err)
	}

	slog.InfoContext(ctx, "Transaction updated", "transaction_id", t.ID)
	return nil
}

// DeleteTransaction removes the row and applies the reversal adjustment
// atomically.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, transactionID string, adj core.BalanceAdjustment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, transactionID, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete transaction rows: %w", err)
	} else if n == 0 {
		return core.ErrNotFound
	}

	if err := applyBalanceAdjustments(ctx, tx, userID, []core.BalanceAdjustment{adj}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction delete: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted", "transaction_id", transactionID)
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, transactionID string) (*core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, transactionColumns+
		` FROM transactions WHERE id = ? AND user_id = ?`, transactionID, userID)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns a user's transactions newest-first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string, opts ListOptions) ([]core.Transaction, error) {
	query := transactionColumns + ` FROM transactions WHERE user_id = ?`
	args := []any{userID}
	if opts.AccountID != "" {
		query += ` AND account_id = ?`
		args = append(args, opts.AccountID)
	}
	query += ` ORDER BY date DESC, created_at DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// SumExpenses sums expense amounts for a user inside [from, to),
// optionally scoped to one account. No matching rows sum to zero.
func (r *SQLiteRepository) SumExpenses(ctx context.Context, userID, accountID string, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		WHERE user_id = ? AND type = ? AND date >= ? AND date < ?`
	args := []any{userID, string(core.TransactionExpense), from.Unix(), to.Unix()}
	if accountID != "" {
		query += ` AND account_id = ?`
		args = append(args, accountID)
	}

	var cents int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&cents); err != nil {
		return decimal.Zero, fmt.Errorf("sum expenses: %w", err)
	}
	return core.FromCents(cents), nil
}

// ListDueRecurring returns recurring transactions whose next due date has
// passed, oldest first, for the auto-posting worker.
func (r *SQLiteRepository) ListDueRecurring(ctx context.Context, now time.Time, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, transactionColumns+`
		FROM transactions
		WHERE is_recurring = 1 AND next_recurring_date IS NOT NULL AND next_recurring_date <= ?
		ORDER BY next_recurring_date
		LIMIT ?`, now.Unix(), limit)
	if err != nil {
		return nil, fmt.Errorf("list due recurring: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// AdvanceRecurring moves a recurring transaction's next due date forward
// after the worker has posted an occurrence.
func (r *SQLiteRepository) AdvanceRecurring(ctx context.Context, userID, transactionID string, next time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET next_recurring_date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		next.Unix(), time.Now().UTC().Unix(), transactionID, userID)
	if err != nil {
		return fmt.Errorf("advance recurring: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("advance recurring rows: %w", err)
	} else if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

const transactionColumns = `
	SELECT id, user_id, account_id, type, amount_cents, date, category, description,
	       is_recurring, recurring_interval, next_recurring_date, created_at, updated_at`

func scanTransaction(row accountScanner) (*core.Transaction, error) {
	var t core.Transaction
	var amount, dateUnix, createdAt, updatedAt int64
	var isRecurring int
	var typ string
	var interval sql.NullString
	var nextDue sql.NullInt64

	err := row.Scan(&t.ID, &t.UserID, &t.AccountID, &typ, &amount, &dateUnix, &t.Category, &t.Description,
		&isRecurring, &interval, &nextDue, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	t.Type = core.TransactionType(typ)
	t.Amount = core.FromCents(amount)
	t.Date = time.Unix(dateUnix, 0).UTC()
	t.IsRecurring = isRecurring == 1
	if interval.Valid {
		t.RecurringInterval = core.RecurringInterval(interval.String)
	}
	if nextDue.Valid {
		due := time.Unix(nextDue.Int64, 0).UTC()
		t.NextRecurringDate = &due
	}
	t.CreatedAt = time.Unix(createdAt, 0).UTC()
	t.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &t, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}
