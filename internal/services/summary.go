package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"haushalt/internal/core"
	"haushalt/internal/log"
)

// SummaryRequest selects the scope of a period summary. Zero year/month
// default to the current calendar month.
type SummaryRequest struct {
	AccountID     core.ID // optional account filter
	Year          int
	Month         int
	RecentLimit   int
	TopCategories int
}

// SummaryService composes the dashboard view for one owner and period.
type SummaryService struct {
	store LedgerStore
	now   func() time.Time
}

func NewSummaryService(store LedgerStore) *SummaryService {
	return &SummaryService{store: store, now: time.Now}
}

// PeriodSummary reads an owner snapshot and derives KPIs, the expense
// breakdown, per-budget progress and the recent-activity view. The four store
// reads are independent, so they run concurrently; no read depends on
// another's result before the aggregation step.
func (s *SummaryService) PeriodSummary(ctx context.Context, owner string, req SummaryRequest) (core.Summary, error) {
	period, err := core.PeriodOrCurrent(req.Year, req.Month, s.now())
	if err != nil {
		return core.Summary{}, err
	}

	if req.AccountID != "" {
		if _, err := s.store.GetAccount(ctx, owner, req.AccountID); err != nil {
			return core.Summary{}, err
		}
	}

	var (
		accounts   []core.Account
		categories []core.Category
		txs        []core.Transaction
		budgets    []core.Budget
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.store.ListAccounts(gctx, owner)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.store.ListCategories(gctx, owner, "")
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = s.store.ListTransactions(gctx, owner, TransactionFilter{AccountID: req.AccountID})
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.store.ListBudgets(gctx, owner, BudgetFilter{
			Year:      period.Year,
			Month:     period.Month,
			AccountID: req.AccountID,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Summary{}, fmt.Errorf("read ledger snapshot: %w", err)
	}

	// Defensive re-check: the store already filters by owner, but a transaction
	// referencing an account outside the owner's set must never leak into a
	// summary.
	owned := make(map[core.ID]bool, len(accounts))
	for _, a := range accounts {
		owned[a.ID] = true
	}
	kept := txs[:0]
	for _, tx := range txs {
		if !owned[tx.AccountID] {
			slog.WarnContext(ctx, "Dropping transaction outside owner scope",
				log.FieldTransactionID, tx.ID, log.FieldAccountID, tx.AccountID)
			continue
		}
		kept = append(kept, tx)
	}

	var allowed map[core.ID]bool
	if req.AccountID != "" {
		allowed = make(map[core.ID]bool)
		for _, c := range categories {
			if c.AccountID == req.AccountID {
				allowed[c.ID] = true
			}
		}
	}

	return core.ComposeSummary(core.SummaryInput{
		Period:            period,
		Categories:        categories,
		Transactions:      kept,
		Budgets:           budgets,
		AllowedCategories: allowed,
		RecentLimit:       req.RecentLimit,
		TopCategories:     req.TopCategories,
	}), nil
}
