package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Sunay4826/AI-finance-platform/internal/core"
)

// SQLiteRepository is the single source of truth for users, accounts,
// transactions and budgets. Every mutation that touches a cached account
// balance runs inside one database transaction, and balances only ever
// change through relative increments.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// isUniqueViolation reports whether err is the driver's uniqueness
// conflict signal. The driver exposes no typed error for this, so the
// message is the contract.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// FindUserByExternalID looks up the local user for an identity-provider
// id. Returns core.ErrNotFound when no local record exists yet.
func (r *SQLiteRepository) FindUserByExternalID(ctx context.Context, externalID string) (*core.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, external_id, name, email, image_url, created_at
		FROM users WHERE external_id = ?`, externalID)

	var u core.User
	var createdAt int64
	err := row.Scan(&u.ID, &u.ExternalID, &u.Name, &u.Email, &u.ImageURL, &createdAt)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by external id: %w", err)
	}
	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &u, nil
}

// CreateUser inserts a new user row. A concurrent insert for the same
// external id surfaces as core.ErrConflict so the caller can re-read
// instead of failing.
func (r *SQLiteRepository) CreateUser(ctx context.Context, u *core.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, external_id, name, email, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.ExternalID, u.Name, u.Email, u.ImageURL, u.CreatedAt.Unix())
	if isUniqueViolation(err) {
		return core.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User created", "user_id", u.ID)
	return nil
}

// CreateAccount inserts an account, enforcing the single-default
// invariant in one database transaction: the user's first account is
// always the default, and an explicit default request flips any
// previous default off.
func (r *SQLiteRepository) CreateAccount(ctx context.Context, a *core.Account) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	balance, err := core.Cents(a.Balance)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE user_id = ?`, a.UserID).Scan(&existing); err != nil {
		return fmt.Errorf("count accounts: %w", err)
	}
	if existing == 0 {
		a.IsDefault = true
	}

	if a.IsDefault {
		if _, err := tx.ExecContext(ctx,
			`UPDATE accounts SET is_default = 0 WHERE user_id = ? AND is_default = 1`, a.UserID); err != nil {
			return fmt.Errorf("clear previous default: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, name, type, balance_cents, is_default, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Name, string(a.Type), balance, boolToInt(a.IsDefault), a.CreatedAt.Unix()); err != nil {
		return fmt.Errorf("insert account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit account create: %w", err)
	}

	slog.InfoContext(ctx, "Account created",
		"account_id", a.ID,
		"user_id", a.UserID,
		"is_default", a.IsDefault)
	return nil
}

// GetAccount returns one account, ownership-checked: an account owned by
// another user is reported as core.ErrNotFound.
func (r *SQLiteRepository) GetAccount(ctx context.Context, userID, accountID string) (*core.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT a.id, a.user_id, a.name, a.type, a.balance_cents, a.is_default, a.created_at,
		       (SELECT COUNT(*) FROM transactions t WHERE t.account_id = a.id) AS tx_count
		FROM accounts a WHERE a.id = ? AND a.user_id = ?`, accountID, userID)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// ListAccounts returns all of a user's accounts, newest first, each with
// its transaction count.
func (r *SQLiteRepository) ListAccounts(ctx context.Context, userID string) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.user_id, a.name, a.type, a.balance_cents, a.is_default, a.created_at,
		       (SELECT COUNT(*) FROM transactions t WHERE t.account_id = a.id) AS tx_count
		FROM accounts a
		WHERE a.user_id = ?
		ORDER BY a.created_at DESC, a.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		var a core.Account
		var balance, createdAt int64
		var isDefault int
		var typ string
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &typ, &balance, &isDefault, &createdAt, &a.TransactionCount); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.Type = core.AccountType(typ)
		a.Balance = core.FromCents(balance)
		a.IsDefault = isDefault == 1
		a.CreatedAt = time.Unix(createdAt, 0).UTC()
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

type accountScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row accountScanner) (*core.Account, error) {
	var a core.Account
	var balance, createdAt int64
	var isDefault int
	var typ string
	if err := row.Scan(&a.ID, &a.UserID, &a.Name, &typ, &balance, &isDefault, &createdAt, &a.TransactionCount); err != nil {
		return nil, err
	}
	a.Type = core.AccountType(typ)
	a.Balance = core.FromCents(balance)
	a.IsDefault = isDefault == 1
	a.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &a, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// applyBalanceAdjustments applies relative balance increments inside an
// open database transaction. Increments keep concurrent mutations against
// the same account from losing updates; there is deliberately no
// read-balance-then-write path anywhere in the repository.
func applyBalanceAdjustments(ctx context.Context, tx *sql.Tx, userID string, adjs []core.BalanceAdjustment) error {
	for _, adj := range adjs {
		if adj.Delta.IsZero() {
			continue
		}
		delta, err := core.Cents(adj.Delta)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE accounts SET balance_cents = balance_cents + ?
			WHERE id = ? AND user_id = ?`, delta, adj.AccountID, userID)
		if err != nil {
			return fmt.Errorf("adjust balance: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("adjust balance rows: %w", err)
		}
		if n == 0 {
			return core.ErrNotFound
		}
	}
	return nil
}
