package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSummary is the derived, all-time state of one account. It is computed
// fresh from the transaction stream on every call; no running balance is ever
// read back as authoritative.
type BalanceSummary struct {
	Balance             decimal.Decimal
	TotalIncome         decimal.Decimal
	TotalExpenses       decimal.Decimal
	TransactionCount    int
	LastTransactionDate time.Time // zero when the account has no transactions
}

// ComputeBalance folds an account's full transaction list over its initial
// balance:
//
//	balance = initial + Σ income − Σ expense
//
// A transaction whose category cannot be resolved still counts toward
// TransactionCount and LastTransactionDate but contributes zero to the fold.
// Insertion order is irrelevant; the fold is a plain sum.
func ComputeBalance(acct Account, txs []Transaction, cats map[ID]Category) BalanceSummary {
	sum := BalanceSummary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	for _, tx := range txs {
		sum.TransactionCount++
		if tx.Date.After(sum.LastTransactionDate) {
			sum.LastTransactionDate = tx.Date
		}

		cat, ok := cats[tx.CategoryID]
		if tx.CategoryID == "" || !ok {
			continue // unclassifiable, contributes zero
		}

		amount, _ := NormalizeAmount(tx.Amount)
		switch cat.Type {
		case Income:
			sum.TotalIncome = sum.TotalIncome.Add(amount)
		case Expense:
			sum.TotalExpenses = sum.TotalExpenses.Add(amount)
		}
	}

	sum.Balance = acct.InitialBalance.Add(sum.TotalIncome).Sub(sum.TotalExpenses)
	return sum
}
