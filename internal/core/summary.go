package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultRecentLimit bounds the recent-transactions view when the caller does
// not ask for a specific size.
const DefaultRecentLimit = 10

type (
	// KPIs are the headline figures for one period.
	KPIs struct {
		TotalIncome   decimal.Decimal
		TotalExpenses decimal.Decimal
		NetBalance    decimal.Decimal
		SavingsRate   float64 // (income−expenses)/income·100, 0 when income is 0
	}

	// CategoryExpense is one row of the expense breakdown.
	CategoryExpense struct {
		CategoryID ID
		Name       string
		Emoji      string
		Color      string
		Amount     decimal.Decimal
	}

	// BudgetStatus pairs a (merged) budget with its computed progress.
	BudgetStatus struct {
		Budget       Budget
		CategoryName string
		CategoryType TransactionType
		Progress     Progress
	}

	// TransactionView is a transaction annotated with its resolved category for
	// the recent-activity list. Type is empty for uncategorized transactions.
	TransactionView struct {
		ID           ID
		AccountID    ID
		Date         time.Time
		Amount       decimal.Decimal
		Note         string
		CategoryID   ID
		CategoryName string
		Emoji        string
		Type         TransactionType
	}

	// SummaryInput is the snapshot a summary is composed from. Transactions may
	// span any date range; partitioning into the period window happens here.
	// AllowedCategories, when non-nil, restricts budget rows and the breakdown
	// to those categories (used when an account filter is active).
	SummaryInput struct {
		Period            Period
		Categories        []Category
		Transactions      []Transaction
		Budgets           []Budget
		AllowedCategories map[ID]bool
		RecentLimit       int
		TopCategories     int // 0 = unbounded
	}

	// Summary is the dashboard view for one period. A period with no matching
	// data yields a valid all-zero summary, never an error.
	Summary struct {
		Period             Period
		KPIs               KPIs
		CategoryBreakdown  []CategoryExpense
		BudgetProgress     []BudgetStatus
		RecentTransactions []TransactionView
	}
)

// ComposeSummary derives the full dashboard state for the requested period.
// It builds the category lookup once, partitions transactions into the period
// window, and delegates per-budget figures to ComputeBudgetProgress.
func ComposeSummary(in SummaryInput) Summary {
	cats := CategoryIndex(in.Categories)

	var window []Transaction
	for _, tx := range in.Transactions {
		if in.Period.Contains(tx.Date) {
			window = append(window, tx)
		}
	}

	out := Summary{
		Period:             in.Period,
		KPIs:               computeKPIs(window, cats),
		CategoryBreakdown:  expenseBreakdown(window, cats, in.AllowedCategories, in.TopCategories),
		RecentTransactions: recentView(window, cats, in.RecentLimit),
	}

	for _, b := range MergeBudgets(in.Budgets) {
		if b.Year != in.Period.Year || b.Month != in.Period.Month {
			continue
		}
		cat, ok := cats[b.CategoryID]
		if !ok {
			continue // dangling reference: skip rather than emit a partial row
		}
		if in.AllowedCategories != nil && !in.AllowedCategories[cat.ID] {
			continue
		}
		out.BudgetProgress = append(out.BudgetProgress, BudgetStatus{
			Budget:       b,
			CategoryName: cat.Name,
			CategoryType: cat.Type,
			Progress: ComputeBudgetProgress(ProgressInput{
				Budget:     b,
				Category:   cat,
				Period:     in.Period,
				AccountTxs: in.Transactions,
				Categories: cats,
			}),
		})
	}

	return out
}

func computeKPIs(window []Transaction, cats map[ID]Category) KPIs {
	k := KPIs{TotalIncome: decimal.Zero, TotalExpenses: decimal.Zero}
	for _, tx := range window {
		cat, ok := cats[tx.CategoryID]
		if !ok {
			continue
		}
		amount, _ := NormalizeAmount(tx.Amount)
		switch cat.Type {
		case Income:
			k.TotalIncome = k.TotalIncome.Add(amount)
		case Expense:
			k.TotalExpenses = k.TotalExpenses.Add(amount)
		}
	}
	k.NetBalance = k.TotalIncome.Sub(k.TotalExpenses)
	if k.TotalIncome.IsPositive() {
		rate, _ := k.NetBalance.Div(k.TotalIncome).Mul(decimal.NewFromInt(100)).Float64()
		k.SavingsRate = rate
	}
	return k
}

func expenseBreakdown(window []Transaction, cats map[ID]Category, allowed map[ID]bool, topN int) []CategoryExpense {
	sums := make(map[ID]decimal.Decimal)
	for _, tx := range window {
		cat, ok := cats[tx.CategoryID]
		if !ok || cat.Type != Expense {
			continue
		}
		if allowed != nil && !allowed[cat.ID] {
			continue
		}
		amount, _ := NormalizeAmount(tx.Amount)
		if prev, ok := sums[cat.ID]; ok {
			sums[cat.ID] = prev.Add(amount)
		} else {
			sums[cat.ID] = amount
		}
	}

	rows := make([]CategoryExpense, 0, len(sums))
	for id, amount := range sums {
		cat := cats[id]
		rows = append(rows, CategoryExpense{
			CategoryID: id,
			Name:       cat.Name,
			Emoji:      cat.Emoji,
			Color:      cat.Color,
			Amount:     amount,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Amount.Equal(rows[j].Amount) {
			return rows[i].Amount.GreaterThan(rows[j].Amount)
		}
		return rows[i].Name < rows[j].Name
	})
	if topN > 0 && len(rows) > topN {
		rows = rows[:topN]
	}
	return rows
}

func recentView(window []Transaction, cats map[ID]Category, limit int) []TransactionView {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	sorted := make([]Transaction, len(window))
	copy(sorted, window)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	views := make([]TransactionView, 0, len(sorted))
	for _, tx := range sorted {
		v := TransactionView{
			ID:         tx.ID,
			AccountID:  tx.AccountID,
			Date:       tx.Date,
			Amount:     tx.Amount,
			Note:       tx.Note,
			CategoryID: tx.CategoryID,
		}
		if cat, ok := cats[tx.CategoryID]; ok {
			v.CategoryName = cat.Name
			v.Emoji = cat.Emoji
			v.Type = cat.Type
		}
		views = append(views, v)
	}
	return views
}
