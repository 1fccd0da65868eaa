package services

import (
	"context"
	"fmt"
	"log/slog"

	"haushalt/internal/core"
	"haushalt/internal/log"
)

// BalanceService derives the current state of an account from its full
// transaction stream. Balances are all-time; no date filter applies.
type BalanceService struct {
	store LedgerStore
}

func NewBalanceService(store LedgerStore) *BalanceService {
	return &BalanceService{store: store}
}

// AccountBalance recomputes the account's balance summary. Returns
// core.ErrAccountNotFound when the account does not exist or belongs to a
// different owner.
func (s *BalanceService) AccountBalance(ctx context.Context, owner string, accountID core.ID) (core.BalanceSummary, error) {
	acct, err := s.store.GetAccount(ctx, owner, accountID)
	if err != nil {
		return core.BalanceSummary{}, err
	}

	txs, err := s.store.ListTransactions(ctx, owner, TransactionFilter{AccountID: accountID})
	if err != nil {
		return core.BalanceSummary{}, fmt.Errorf("list transactions: %w", err)
	}

	cats, err := s.store.ListCategories(ctx, owner, accountID)
	if err != nil {
		return core.BalanceSummary{}, fmt.Errorf("list categories: %w", err)
	}

	sum := core.ComputeBalance(acct, txs, core.CategoryIndex(cats))
	slog.DebugContext(ctx, "Balance computed",
		log.FieldAccountID, accountID,
		log.FieldBalance, sum.Balance.String(),
		"transactions", sum.TransactionCount)
	return sum, nil
}
