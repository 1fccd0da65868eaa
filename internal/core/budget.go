package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Progress is the state of one budget inside its target period.
type Progress struct {
	Spent               decimal.Decimal
	Remaining           decimal.Decimal
	PercentageUsed      float64
	TransactionCount    int
	LastTransactionDate time.Time // zero when nothing contributed
}

// ProgressInput carries everything budget aggregation needs. AccountTxs may
// span several accounts; transactions on accounts other than the category's
// never contribute. The window filter is applied here so the half-open
// boundary rule lives in exactly one place.
type ProgressInput struct {
	Budget     Budget
	Category   Category
	Period     Period
	AccountTxs []Transaction
	Categories map[ID]Category
}

// ComputeBudgetProgress aggregates spending against a budget cap.
//
// The classification rule is asymmetric and deliberate:
//
//   - EXPENSE category: spent is the sum of that category's transactions
//     inside the period window.
//   - INCOME category: the budget is a savings target, so spent is the sum of
//     EXPENSE transactions across ALL of the account's categories in the
//     window. Progress is measured against total outflow, not against the
//     income transactions themselves.
func ComputeBudgetProgress(in ProgressInput) Progress {
	p := Progress{Spent: decimal.Zero}

	for _, tx := range in.AccountTxs {
		if !in.Period.Contains(tx.Date) {
			continue
		}
		if !contributes(tx, in.Budget, in.Category, in.Categories) {
			continue
		}
		amount, _ := NormalizeAmount(tx.Amount)
		p.Spent = p.Spent.Add(amount)
		p.TransactionCount++
		if tx.Date.After(p.LastTransactionDate) {
			p.LastTransactionDate = tx.Date
		}
	}

	p.Remaining = in.Budget.TotalAmount.Sub(p.Spent)
	if in.Budget.TotalAmount.IsPositive() {
		pct, _ := p.Spent.Div(in.Budget.TotalAmount).Mul(decimal.NewFromInt(100)).Float64()
		p.PercentageUsed = pct
	}
	return p
}

func contributes(tx Transaction, b Budget, cat Category, cats map[ID]Category) bool {
	if cat.Type == Expense {
		return tx.CategoryID == b.CategoryID
	}
	// Income budget: every expense-typed transaction on the category's own
	// account counts. Other accounts never contribute, even when the caller
	// hands in transactions spanning several accounts.
	txCat, ok := cats[tx.CategoryID]
	return ok && txCat.Type == Expense && txCat.AccountID == cat.AccountID
}

// MergeBudgets collapses duplicate budgets sharing a (category, year, month)
// key into one row with the caps summed. Nothing upstream prevents duplicates,
// and summing deterministically beats picking one arbitrarily. Output order is
// stable: year, month, then category ID.
func MergeBudgets(budgets []Budget) []Budget {
	byKey := make(map[BudgetKey]Budget, len(budgets))
	for _, b := range budgets {
		k := b.Key()
		if existing, ok := byKey[k]; ok {
			existing.TotalAmount = existing.TotalAmount.Add(b.TotalAmount)
			byKey[k] = existing
			continue
		}
		byKey[k] = b
	}

	merged := make([]Budget, 0, len(byKey))
	for _, b := range byKey {
		merged = append(merged, b)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Year != merged[j].Year {
			return merged[i].Year < merged[j].Year
		}
		if merged[i].Month != merged[j].Month {
			return merged[i].Month < merged[j].Month
		}
		return merged[i].CategoryID < merged[j].CategoryID
	})
	return merged
}
