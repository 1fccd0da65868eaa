// Package services exposes the engine's request-scoped operations: account
// balance, budget progress and period summaries. Each call reads a snapshot
// from the ledger store, computes in memory and returns; nothing is cached and
// nothing is written back.
package services

import (
	"context"
	"time"

	"haushalt/internal/core"
)

// TransactionFilter narrows a transaction read. Zero values mean "no filter";
// the [From, To) range is half-open like every period window.
type TransactionFilter struct {
	AccountID  core.ID
	CategoryID core.ID
	From       time.Time
	To         time.Time
}

// BudgetFilter narrows a budget read. Zero year/month mean "all periods".
type BudgetFilter struct {
	Year      int
	Month     int
	AccountID core.ID
}

// LedgerStore is the read surface the engine depends on. Every call is scoped
// to a single owner and returns a consistent snapshot; different calls may
// observe different snapshots (no cross-call isolation is promised).
type LedgerStore interface {
	GetAccount(ctx context.Context, owner string, id core.ID) (core.Account, error)
	ListAccounts(ctx context.Context, owner string) ([]core.Account, error)
	GetCategory(ctx context.Context, owner string, id core.ID) (core.Category, error)
	ListCategories(ctx context.Context, owner string, accountID core.ID) ([]core.Category, error)
	ListTransactions(ctx context.Context, owner string, f TransactionFilter) ([]core.Transaction, error)
	GetBudget(ctx context.Context, owner string, id core.ID) (core.Budget, error)
	ListBudgets(ctx context.Context, owner string, f BudgetFilter) ([]core.Budget, error)
}
