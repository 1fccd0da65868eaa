package services

import (
	"context"
	"fmt"

	"haushalt/internal/core"
)

// BudgetService computes spent/remaining/percentage figures for single
// budgets. Duplicate budgets sharing a (category, year, month) key are merged
// by summing their caps before aggregation.
type BudgetService struct {
	store LedgerStore
}

func NewBudgetService(store LedgerStore) *BudgetService {
	return &BudgetService{store: store}
}

// Progress computes a budget's progress in its own target period.
func (s *BudgetService) Progress(ctx context.Context, owner string, budgetID core.ID) (core.Progress, error) {
	b, err := s.store.GetBudget(ctx, owner, budgetID)
	if err != nil {
		return core.Progress{}, err
	}
	return s.ProgressForCategory(ctx, owner, b.CategoryID, core.Period{Year: b.Year, Month: b.Month})
}

// ProgressForCategory computes progress for the budget(s) of one category in
// one period. A dangling category reference or a period with no budget yields
// a NotFound error rather than a partial record.
func (s *BudgetService) ProgressForCategory(ctx context.Context, owner string, categoryID core.ID, period core.Period) (core.Progress, error) {
	if err := period.Validate(); err != nil {
		return core.Progress{}, err
	}

	cat, err := s.store.GetCategory(ctx, owner, categoryID)
	if err != nil {
		return core.Progress{}, err
	}

	budgets, err := s.store.ListBudgets(ctx, owner, BudgetFilter{Year: period.Year, Month: period.Month})
	if err != nil {
		return core.Progress{}, fmt.Errorf("list budgets: %w", err)
	}

	var matching []core.Budget
	for _, b := range budgets {
		if b.CategoryID == categoryID {
			matching = append(matching, b)
		}
	}
	if len(matching) == 0 {
		return core.Progress{}, core.ErrBudgetNotFound
	}
	merged := core.MergeBudgets(matching)[0]

	txs, err := s.store.ListTransactions(ctx, owner, TransactionFilter{AccountID: cat.AccountID})
	if err != nil {
		return core.Progress{}, fmt.Errorf("list transactions: %w", err)
	}
	cats, err := s.store.ListCategories(ctx, owner, cat.AccountID)
	if err != nil {
		return core.Progress{}, fmt.Errorf("list categories: %w", err)
	}

	return core.ComputeBudgetProgress(core.ProgressInput{
		Budget:     merged,
		Category:   cat,
		Period:     period,
		AccountTxs: txs,
		Categories: core.CategoryIndex(cats),
	}), nil
}
