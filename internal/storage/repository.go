// Package storage is the durable ledger store: append-mostly SQLite tables for
// accounts, categories, transactions and budgets, with owner-scoped reads the
// reconciliation engine consumes.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"haushalt/internal/core"
	"haushalt/internal/log"
	"haushalt/internal/metrics"
	"haushalt/internal/services"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// Export states for the async spreadsheet export. The engine never reads these.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ services.LedgerStore = (*SQLiteRepository)(nil)

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

// Accounts

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	if a.ID == "" {
		a.ID = core.NewID()
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now

	if a.IsActive {
		var n int
		err := r.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM accounts WHERE owner = ? AND is_active = 1`, a.Owner).Scan(&n)
		if err != nil {
			return core.Account{}, fmt.Errorf("check active account: %w", err)
		}
		if n > 0 {
			return core.Account{}, core.ErrActiveAccountExists
		}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, owner, name, type, initial_balance, is_active, note, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Owner, a.Name, string(a.Type), a.InitialBalance.String(), boolToInt(a.IsActive), a.Note,
		now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return core.Account{}, fmt.Errorf("insert account: %w", err)
	}

	slog.InfoContext(ctx, "Account created", "id", a.ID, log.FieldOwner, a.Owner, "name", a.Name)
	return a, nil
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, owner string, id core.ID) (core.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner, name, type, initial_balance, is_active, note, created_at, updated_at
		 FROM accounts WHERE id = ? AND owner = ?`, id, owner)

	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, core.ErrAccountNotFound
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account %s: %w", id, err)
	}
	return a, nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context, owner string) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner, name, type, initial_balance, is_active, note, created_at, updated_at
		 FROM accounts WHERE owner = ? ORDER BY created_at`, owner)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unreadable account row", log.FieldError, err, log.FieldOwner, owner)
			continue
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// SnapshotAccountBalance writes the advisory cached balance column. The engine
// never reads it back; it exists for external consumers of the raw table.
func (r *SQLiteRepository) SnapshotAccountBalance(ctx context.Context, owner string, id core.ID, balance decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET balance_cached = ?, balance_cached_at = ? WHERE id = ? AND owner = ?`,
		balance.String(), time.Now().UTC().Format(time.RFC3339), id, owner)
	if err != nil {
		return fmt.Errorf("snapshot balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrAccountNotFound
	}
	slog.InfoContext(ctx, "Balance snapshot written", log.FieldAccountID, id, log.FieldBalance, balance.String())
	return nil
}

// Categories

func (r *SQLiteRepository) CreateCategory(ctx context.Context, owner string, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	// The account reference must resolve inside the owner's data.
	if _, err := r.GetAccount(ctx, owner, c.AccountID); err != nil {
		return core.Category{}, err
	}
	if c.ID == "" {
		c.ID = core.NewID()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, account_id, name, transaction_type, emoji, color, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.AccountID, c.Name, string(c.Type), c.Emoji, c.Color, c.Description,
		now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}

	slog.InfoContext(ctx, "Category created", "id", c.ID, "name", c.Name, "type", c.Type)
	return c, nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, owner string, id core.ID) (core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT c.id, c.account_id, c.name, c.transaction_type, c.emoji, c.color, c.description, c.created_at, c.updated_at
		 FROM categories c JOIN accounts a ON a.id = c.account_id
		 WHERE c.id = ? AND a.owner = ?`, id, owner)

	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrCategoryNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %s: %w", id, err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, owner string, accountID core.ID) ([]core.Category, error) {
	query := `SELECT c.id, c.account_id, c.name, c.transaction_type, c.emoji, c.color, c.description, c.created_at, c.updated_at
		 FROM categories c JOIN accounts a ON a.id = c.account_id
		 WHERE a.owner = ?`
	args := []any{owner}
	if accountID != "" {
		query += ` AND c.account_id = ?`
		args = append(args, accountID)
	}
	query += ` ORDER BY c.name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unreadable category row", log.FieldError, err, log.FieldOwner, owner)
			continue
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// Transactions

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, owner string, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if _, err := r.GetAccount(ctx, owner, t.AccountID); err != nil {
		return core.Transaction{}, err
	}
	if t.CategoryID != "" {
		if _, err := r.GetCategory(ctx, owner, t.CategoryID); err != nil {
			return core.Transaction{}, err
		}
	}
	if t.ID == "" {
		t.ID = core.NewID()
	}
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, account_id, category_id, date, amount, note, sync_state, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.AccountID, nullableID(t.CategoryID), t.Date.UTC().Format(dateLayout), t.Amount.String(), t.Note,
		SyncPending, now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"id", t.ID, log.FieldAccountID, t.AccountID, log.FieldAmount, t.Amount.String(), "date", t.Date.Format(dateLayout))
	return t, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, owner string, id core.ID) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT t.id, t.account_id, t.category_id, t.date, t.amount, t.note, t.created_at, t.updated_at
		 FROM transactions t JOIN accounts a ON a.id = t.account_id
		 WHERE t.id = ? AND a.owner = ? AND t.deleted_at IS NULL`, id, owner)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return t, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, owner string, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if t.CategoryID != "" {
		if _, err := r.GetCategory(ctx, owner, t.CategoryID); err != nil {
			return core.Transaction{}, err
		}
	}
	t.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET category_id = ?, date = ?, amount = ?, note = ?, sync_state = ?, updated_at = ?
		 WHERE id = ? AND deleted_at IS NULL
		   AND account_id IN (SELECT id FROM accounts WHERE owner = ?)`,
		nullableID(t.CategoryID), t.Date.UTC().Format(dateLayout), t.Amount.String(), t.Note,
		SyncPending, t.UpdatedAt.Format(time.RFC3339), t.ID, owner)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	return r.GetTransaction(ctx, owner, t.ID)
}

// DeleteTransaction soft-deletes so the export worker can still observe the
// row disappearing from aggregations.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, owner string, id core.ID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET deleted_at = ?, updated_at = ?
		 WHERE id = ? AND deleted_at IS NULL
		   AND account_id IN (SELECT id FROM accounts WHERE owner = ?)`,
		time.Now().UTC().Format(time.RFC3339), time.Now().UTC().Format(time.RFC3339), id, owner)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrTransactionNotFound
	}
	slog.InfoContext(ctx, "Transaction soft-deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, owner string, f services.TransactionFilter) ([]core.Transaction, error) {
	query := `SELECT t.id, t.account_id, t.category_id, t.date, t.amount, t.note, t.created_at, t.updated_at
		 FROM transactions t JOIN accounts a ON a.id = t.account_id
		 WHERE a.owner = ? AND t.deleted_at IS NULL`
	args := []any{owner}

	if f.AccountID != "" {
		query += ` AND t.account_id = ?`
		args = append(args, f.AccountID)
	}
	if f.CategoryID != "" {
		query += ` AND t.category_id = ?`
		args = append(args, f.CategoryID)
	}
	if !f.From.IsZero() {
		query += ` AND t.date >= ?`
		args = append(args, f.From.UTC().Format(dateLayout))
	}
	if !f.To.IsZero() {
		query += ` AND t.date < ?` // half-open upper bound
		args = append(args, f.To.UTC().Format(dateLayout))
	}
	query += ` ORDER BY t.date, t.created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			// Data-integrity problem: skip the record, keep the computation alive.
			metrics.IntegrityWarnings.Inc()
			slog.WarnContext(ctx, "Skipping unreadable transaction row", log.FieldError, err, log.FieldOwner, owner)
			continue
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// Budgets

func (r *SQLiteRepository) CreateBudget(ctx context.Context, owner string, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if _, err := r.GetCategory(ctx, owner, b.CategoryID); err != nil {
		return core.Budget{}, err
	}

	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM budgets WHERE category_id = ? AND year = ? AND month = ?`,
		b.CategoryID, b.Year, b.Month).Scan(&n)
	if err != nil {
		return core.Budget{}, fmt.Errorf("check duplicate budget: %w", err)
	}
	if n > 0 {
		return core.Budget{}, core.ErrDuplicateBudget
	}

	if b.ID == "" {
		b.ID = core.NewID()
	}
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO budgets (id, category_id, year, month, total_amount, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.CategoryID, b.Year, b.Month, b.TotalAmount.String(),
		now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return core.Budget{}, fmt.Errorf("insert budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget created",
		"id", b.ID, log.FieldCategoryID, b.CategoryID, "period", fmt.Sprintf("%04d-%02d", b.Year, b.Month))
	return b, nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, owner string, id core.ID) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT b.id, b.category_id, b.year, b.month, b.total_amount, b.created_at, b.updated_at
		 FROM budgets b
		 JOIN categories c ON c.id = b.category_id
		 JOIN accounts a ON a.id = c.account_id
		 WHERE b.id = ? AND a.owner = ?`, id, owner)

	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrBudgetNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget %s: %w", id, err)
	}
	return b, nil
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, owner string, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET total_amount = ?, updated_at = ?
		 WHERE id = ? AND category_id IN (
		     SELECT c.id FROM categories c JOIN accounts a ON a.id = c.account_id WHERE a.owner = ?)`,
		b.TotalAmount.String(), time.Now().UTC().Format(time.RFC3339), b.ID, owner)
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Budget{}, core.ErrBudgetNotFound
	}
	return r.GetBudget(ctx, owner, b.ID)
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, owner string, id core.ID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND category_id IN (
		     SELECT c.id FROM categories c JOIN accounts a ON a.id = c.account_id WHERE a.owner = ?)`,
		id, owner)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrBudgetNotFound
	}
	slog.InfoContext(ctx, "Budget deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, owner string, f services.BudgetFilter) ([]core.Budget, error) {
	query := `SELECT b.id, b.category_id, b.year, b.month, b.total_amount, b.created_at, b.updated_at
		 FROM budgets b
		 JOIN categories c ON c.id = b.category_id
		 JOIN accounts a ON a.id = c.account_id
		 WHERE a.owner = ?`
	args := []any{owner}

	if f.Year != 0 {
		query += ` AND b.year = ?`
		args = append(args, f.Year)
	}
	if f.Month != 0 {
		query += ` AND b.month = ?`
		args = append(args, f.Month)
	}
	if f.AccountID != "" {
		query += ` AND c.account_id = ?`
		args = append(args, f.AccountID)
	}
	query += ` ORDER BY b.year, b.month, b.created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unreadable budget row", log.FieldError, err, log.FieldOwner, owner)
			continue
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// Export bookkeeping (worker support)

// ExportTransaction is the denormalized row the spreadsheet export needs.
type ExportTransaction struct {
	ID           core.ID
	Owner        string
	AccountName  string
	Date         time.Time
	Amount       decimal.Decimal
	Note         string
	CategoryName string
	CategoryType core.TransactionType
}

func (r *SQLiteRepository) ListPendingExports(ctx context.Context, limit int) ([]ExportTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, a.owner, a.name, t.date, t.amount, t.note,
		        COALESCE(c.name, ''), COALESCE(c.transaction_type, '')
		 FROM transactions t
		 JOIN accounts a ON a.id = t.account_id
		 LEFT JOIN categories c ON c.id = t.category_id
		 WHERE t.sync_state = ? AND t.deleted_at IS NULL
		 ORDER BY t.created_at LIMIT ?`, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending exports: %w", err)
	}
	defer rows.Close()

	var out []ExportTransaction
	for rows.Next() {
		var (
			e       ExportTransaction
			dateStr string
			amtStr  string
			typStr  string
		)
		if err := rows.Scan(&e.ID, &e.Owner, &e.AccountName, &dateStr, &amtStr, &e.Note, &e.CategoryName, &typStr); err != nil {
			return nil, fmt.Errorf("scan pending export: %w", err)
		}
		e.Date, err = time.Parse(dateLayout, dateStr)
		if err != nil {
			slog.WarnContext(ctx, "Skipping export row with bad date", "id", e.ID, "date", dateStr)
			continue
		}
		e.Amount, err = decimal.NewFromString(amtStr)
		if err != nil {
			slog.WarnContext(ctx, "Skipping export row with bad amount", "id", e.ID, log.FieldAmount, amtStr)
			continue
		}
		e.CategoryType = core.TransactionType(typStr)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) MarkTransactionSynced(ctx context.Context, id core.ID) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_state = ? WHERE id = ?`, SyncDone, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkTransactionSyncError(ctx context.Context, id core.ID) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_state = ? WHERE id = ?`, SyncError, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	return nil
}

// AccountOwner resolves the owner of an account without scoping, for worker
// messages that only carry an account ID.
func (r *SQLiteRepository) AccountOwner(ctx context.Context, id core.ID) (string, error) {
	var owner string
	err := r.db.QueryRowContext(ctx, `SELECT owner FROM accounts WHERE id = ?`, id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", core.ErrAccountNotFound
	}
	if err != nil {
		return "", fmt.Errorf("resolve account owner: %w", err)
	}
	return owner, nil
}

// Row scanning

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (core.Account, error) {
	var (
		a                    core.Account
		typ, balStr          string
		active               int
		createdAt, updatedAt string
	)
	if err := row.Scan(&a.ID, &a.Owner, &a.Name, &typ, &balStr, &active, &a.Note, &createdAt, &updatedAt); err != nil {
		return core.Account{}, err
	}
	bal, err := decimal.NewFromString(balStr)
	if err != nil {
		return core.Account{}, fmt.Errorf("parse initial balance %q: %w", balStr, err)
	}
	a.Type = core.AccountType(typ)
	a.InitialBalance = bal
	a.IsActive = active != 0
	a.CreatedAt = parseTimestamp(createdAt)
	a.UpdatedAt = parseTimestamp(updatedAt)
	return a, nil
}

func scanCategory(row rowScanner) (core.Category, error) {
	var (
		c                    core.Category
		typ                  string
		createdAt, updatedAt string
	)
	if err := row.Scan(&c.ID, &c.AccountID, &c.Name, &typ, &c.Emoji, &c.Color, &c.Description, &createdAt, &updatedAt); err != nil {
		return core.Category{}, err
	}
	c.Type = core.TransactionType(typ)
	c.CreatedAt = parseTimestamp(createdAt)
	c.UpdatedAt = parseTimestamp(updatedAt)
	return c, nil
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t                    core.Transaction
		catID                sql.NullString
		dateStr, amtStr      string
		createdAt, updatedAt string
	)
	if err := row.Scan(&t.ID, &t.AccountID, &catID, &dateStr, &amtStr, &t.Note, &createdAt, &updatedAt); err != nil {
		return core.Transaction{}, err
	}
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", dateStr, err)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(amtStr))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", amtStr, err)
	}
	if norm, flipped := core.NormalizeAmount(amount); flipped {
		// Should have been rejected at the write boundary; absorb and flag.
		metrics.IntegrityWarnings.Inc()
		slog.Warn("Negative transaction amount normalized", "id", t.ID, log.FieldAmount, amtStr)
		amount = norm
	}
	if catID.Valid {
		t.CategoryID = core.ID(catID.String)
	}
	t.Date = date
	t.Amount = amount
	t.CreatedAt = parseTimestamp(createdAt)
	t.UpdatedAt = parseTimestamp(updatedAt)
	return t, nil
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var (
		b                    core.Budget
		amtStr               string
		createdAt, updatedAt string
	)
	if err := row.Scan(&b.ID, &b.CategoryID, &b.Year, &b.Month, &amtStr, &createdAt, &updatedAt); err != nil {
		return core.Budget{}, err
	}
	amount, err := decimal.NewFromString(amtStr)
	if err != nil {
		return core.Budget{}, fmt.Errorf("parse total amount %q: %w", amtStr, err)
	}
	b.TotalAmount = amount
	b.CreatedAt = parseTimestamp(createdAt)
	b.UpdatedAt = parseTimestamp(updatedAt)
	return b, nil
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableID(id core.ID) any {
	if id == "" {
		return nil
	}
	return string(id)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
