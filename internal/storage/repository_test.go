package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haushalt/internal/core"
	"haushalt/internal/services"
)

func newRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func seedAccount(t *testing.T, repo *SQLiteRepository, owner string) core.Account {
	t.Helper()
	a, err := repo.CreateAccount(context.Background(), core.Account{
		Owner:          owner,
		Name:           "Girokonto",
		Type:           core.AccountChecking,
		InitialBalance: dec("1000"),
		IsActive:       true,
	})
	require.NoError(t, err)
	return a
}

func seedCategory(t *testing.T, repo *SQLiteRepository, owner string, accountID core.ID, name string, typ core.TransactionType) core.Category {
	t.Helper()
	c, err := repo.CreateCategory(context.Background(), owner, core.Category{
		AccountID: accountID,
		Name:      name,
		Type:      typ,
	})
	require.NoError(t, err)
	return c
}

func seedTransaction(t *testing.T, repo *SQLiteRepository, owner string, accountID, categoryID core.ID, date, amount string) core.Transaction {
	t.Helper()
	tx, err := repo.CreateTransaction(context.Background(), owner, core.Transaction{
		AccountID:  accountID,
		CategoryID: categoryID,
		Date:       day(date),
		Amount:     dec(amount),
	})
	require.NoError(t, err)
	return tx
}

func TestAccountRoundtripAndOwnerScoping(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	a := seedAccount(t, repo, "anna")

	got, err := repo.GetAccount(ctx, "anna", a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Name, got.Name)
	assert.True(t, got.InitialBalance.Equal(dec("1000")))
	assert.True(t, got.IsActive)

	_, err = repo.GetAccount(ctx, "bernd", a.ID)
	assert.ErrorIs(t, err, core.ErrAccountNotFound)

	accounts, err := repo.ListAccounts(ctx, "bernd")
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestSecondActiveAccountRejected(t *testing.T) {
	repo := newRepo(t)
	seedAccount(t, repo, "anna")

	_, err := repo.CreateAccount(context.Background(), core.Account{
		Owner:          "anna",
		Name:           "Zweitkonto",
		Type:           core.AccountSavings,
		InitialBalance: dec("0"),
		IsActive:       true,
	})
	assert.ErrorIs(t, err, core.ErrActiveAccountExists)

	// An inactive account is fine, and another owner can have their own
	// active account.
	_, err = repo.CreateAccount(context.Background(), core.Account{
		Owner: "anna", Name: "Altkonto", Type: core.AccountSavings, InitialBalance: dec("0"),
	})
	assert.NoError(t, err)

	_, err = repo.CreateAccount(context.Background(), core.Account{
		Owner: "bernd", Name: "Konto", Type: core.AccountChecking, InitialBalance: dec("0"), IsActive: true,
	})
	assert.NoError(t, err)
}

func TestSnapshotAccountBalance(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	a := seedAccount(t, repo, "anna")

	require.NoError(t, repo.SnapshotAccountBalance(ctx, "anna", a.ID, dec("920")))

	err := repo.SnapshotAccountBalance(ctx, "bernd", a.ID, dec("0"))
	assert.ErrorIs(t, err, core.ErrAccountNotFound)
}

func TestCategoryOwnerScoping(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	a := seedAccount(t, repo, "anna")
	c := seedCategory(t, repo, "anna", a.ID, "Fitness", core.Expense)

	_, err := repo.GetCategory(ctx, "bernd", c.ID)
	assert.ErrorIs(t, err, core.ErrCategoryNotFound)

	// Creating a category against someone else's account must fail.
	_, err = repo.CreateCategory(ctx, "bernd", core.Category{
		AccountID: a.ID, Name: "Hijack", Type: core.Expense,
	})
	assert.ErrorIs(t, err, core.ErrAccountNotFound)

	cats, err := repo.ListCategories(ctx, "anna", a.ID)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, core.Expense, cats[0].Type)
}

func TestTransactionLifecycle(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	a := seedAccount(t, repo, "anna")
	c := seedCategory(t, repo, "anna", a.ID, "Fitness", core.Expense)
	tx := seedTransaction(t, repo, "anna", a.ID, c.ID, "2025-11-03", "40")

	got, err := repo.GetTransaction(ctx, "anna", tx.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(dec("40")))
	assert.Equal(t, day("2025-11-03"), got.Date)

	got.Amount = dec("45")
	updated, err := repo.UpdateTransaction(ctx, "anna", got)
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(dec("45")))

	require.NoError(t, repo.DeleteTransaction(ctx, "anna", tx.ID))

	_, err = repo.GetTransaction(ctx, "anna", tx.ID)
	assert.ErrorIs(t, err, core.ErrTransactionNotFound)

	txs, err := repo.ListTransactions(ctx, "anna", services.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txs, "soft-deleted rows must not be listed")

	err = repo.DeleteTransaction(ctx, "anna", tx.ID)
	assert.ErrorIs(t, err, core.ErrTransactionNotFound, "second delete is a no-op")
}

func TestUncategorizedTransactionAllowed(t *testing.T) {
	repo := newRepo(t)
	a := seedAccount(t, repo, "anna")
	tx := seedTransaction(t, repo, "anna", a.ID, "", "2025-11-05", "12.50")

	got, err := repo.GetTransaction(context.Background(), "anna", tx.ID)
	require.NoError(t, err)
	assert.Empty(t, got.CategoryID)
}

func TestListTransactionsHalfOpenWindow(t *testing.T) {
	repo := newRepo(t)
	a := seedAccount(t, repo, "anna")
	c := seedCategory(t, repo, "anna", a.ID, "Fitness", core.Expense)
	seedTransaction(t, repo, "anna", a.ID, c.ID, "2025-10-31", "1")
	seedTransaction(t, repo, "anna", a.ID, c.ID, "2025-11-01", "2")
	seedTransaction(t, repo, "anna", a.ID, c.ID, "2025-11-30", "3")
	seedTransaction(t, repo, "anna", a.ID, c.ID, "2025-12-01", "4")

	txs, err := repo.ListTransactions(context.Background(), "anna", services.TransactionFilter{
		From: day("2025-11-01"),
		To:   day("2025-12-01"),
	})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, day("2025-11-01"), txs[0].Date)
	assert.Equal(t, day("2025-11-30"), txs[1].Date)
}

func TestListTransactionsSkipsBadRows(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	a := seedAccount(t, repo, "anna")
	c := seedCategory(t, repo, "anna", a.ID, "Fitness", core.Expense)
	seedTransaction(t, repo, "anna", a.ID, c.ID, "2025-11-03", "40")

	// Corrupt row written behind the repository's back.
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO transactions (id, account_id, category_id, date, amount, note, sync_state, created_at, updated_at)
		 VALUES ('bad', ?, ?, '2025-11-04', 'garbage', '', 'pending', '2025-11-04T00:00:00Z', '2025-11-04T00:00:00Z')`,
		a.ID, c.ID)
	require.NoError(t, err)

	txs, err := repo.ListTransactions(ctx, "anna", services.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 1, "unreadable row is skipped, not fatal")
	assert.True(t, txs[0].Amount.Equal(dec("40")))
}

func TestNegativeStoredAmountNormalized(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	a := seedAccount(t, repo, "anna")
	c := seedCategory(t, repo, "anna", a.ID, "Fitness", core.Expense)

	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO transactions (id, account_id, category_id, date, amount, note, sync_state, created_at, updated_at)
		 VALUES ('neg', ?, ?, '2025-11-04', '-50', '', 'pending', '2025-11-04T00:00:00Z', '2025-11-04T00:00:00Z')`,
		a.ID, c.ID)
	require.NoError(t, err)

	txs, err := repo.ListTransactions(ctx, "anna", services.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.True(t, txs[0].Amount.Equal(dec("50")), "magnitude is kept, sign dropped")
}

func TestBudgetDuplicateRejectedAndScoped(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	a := seedAccount(t, repo, "anna")
	c := seedCategory(t, repo, "anna", a.ID, "Fitness", core.Expense)

	b, err := repo.CreateBudget(ctx, "anna", core.Budget{
		CategoryID: c.ID, Year: 2025, Month: 11, TotalAmount: dec("40"),
	})
	require.NoError(t, err)

	_, err = repo.CreateBudget(ctx, "anna", core.Budget{
		CategoryID: c.ID, Year: 2025, Month: 11, TotalAmount: dec("60"),
	})
	assert.ErrorIs(t, err, core.ErrDuplicateBudget)

	_, err = repo.GetBudget(ctx, "bernd", b.ID)
	assert.ErrorIs(t, err, core.ErrBudgetNotFound)

	b.TotalAmount = dec("80")
	updated, err := repo.UpdateBudget(ctx, "anna", b)
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(dec("80")))

	require.NoError(t, repo.DeleteBudget(ctx, "anna", b.ID))
	assert.ErrorIs(t, repo.DeleteBudget(ctx, "anna", b.ID), core.ErrBudgetNotFound)
}

func TestListBudgetsFilters(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	a := seedAccount(t, repo, "anna")
	fitness := seedCategory(t, repo, "anna", a.ID, "Fitness", core.Expense)
	food := seedCategory(t, repo, "anna", a.ID, "Essen", core.Expense)

	mustBudget := func(cat core.ID, year, month int) {
		_, err := repo.CreateBudget(ctx, "anna", core.Budget{
			CategoryID: cat, Year: year, Month: month, TotalAmount: dec("100"),
		})
		require.NoError(t, err)
	}
	mustBudget(fitness.ID, 2025, 11)
	mustBudget(fitness.ID, 2025, 12)
	mustBudget(food.ID, 2025, 11)

	budgets, err := repo.ListBudgets(ctx, "anna", services.BudgetFilter{Year: 2025, Month: 11})
	require.NoError(t, err)
	assert.Len(t, budgets, 2)

	budgets, err = repo.ListBudgets(ctx, "anna", services.BudgetFilter{Year: 2025, Month: 11, AccountID: a.ID})
	require.NoError(t, err)
	assert.Len(t, budgets, 2)

	budgets, err = repo.ListBudgets(ctx, "bernd", services.BudgetFilter{})
	require.NoError(t, err)
	assert.Empty(t, budgets)
}

func TestPendingExportLifecycle(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	a := seedAccount(t, repo, "anna")
	c := seedCategory(t, repo, "anna", a.ID, "Fitness", core.Expense)
	tx1 := seedTransaction(t, repo, "anna", a.ID, c.ID, "2025-11-03", "40")
	tx2 := seedTransaction(t, repo, "anna", a.ID, "", "2025-11-04", "12")

	pending, err := repo.ListPendingExports(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "anna", pending[0].Owner)
	assert.Equal(t, "Girokonto", pending[0].AccountName)
	assert.Equal(t, "Fitness", pending[0].CategoryName)
	assert.Empty(t, pending[1].CategoryName, "uncategorized export has no category")

	require.NoError(t, repo.MarkTransactionSynced(ctx, tx1.ID))
	require.NoError(t, repo.MarkTransactionSyncError(ctx, tx2.ID))

	pending, err = repo.ListPendingExports(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// An update re-queues the transaction for export.
	tx, err := repo.GetTransaction(ctx, "anna", tx1.ID)
	require.NoError(t, err)
	tx.Amount = dec("45")
	_, err = repo.UpdateTransaction(ctx, "anna", tx)
	require.NoError(t, err)

	pending, err = repo.ListPendingExports(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, tx1.ID, pending[0].ID)
}

func TestAccountOwner(t *testing.T) {
	repo := newRepo(t)
	a := seedAccount(t, repo, "anna")

	owner, err := repo.AccountOwner(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "anna", owner)

	_, err = repo.AccountOwner(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrAccountNotFound)
}
