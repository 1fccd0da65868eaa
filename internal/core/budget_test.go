package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func progressInput(b Budget, txs []Transaction) ProgressInput {
	cats, list := testCategories()
	var cat Category
	for _, c := range list {
		if c.ID == b.CategoryID {
			cat = c
		}
	}
	return ProgressInput{
		Budget:     b,
		Category:   cat,
		Period:     Period{Year: b.Year, Month: b.Month},
		AccountTxs: txs,
		Categories: cats,
	}
}

func TestBudgetProgressExpenseCategory(t *testing.T) {
	// Spec scenario: Fitness cap 40, two transactions of 40 in November 2025.
	budget := Budget{ID: NewID(), CategoryID: "fitness", Year: 2025, Month: 11, TotalAmount: dec("40")}
	txs := []Transaction{
		tx("fitness", "2025-11-03", "40"),
		tx("fitness", "2025-11-17", "40"),
		tx("groceries", "2025-11-05", "100"), // different category, ignored
		tx("fitness", "2025-10-20", "40"),    // previous month, ignored
	}

	p := ComputeBudgetProgress(progressInput(budget, txs))

	assert.True(t, p.Spent.Equal(dec("80")), "spent=%s", p.Spent)
	assert.True(t, p.Remaining.Equal(dec("-40")), "remaining=%s", p.Remaining)
	assert.InDelta(t, 200.0, p.PercentageUsed, 1e-9)
	assert.Equal(t, 2, p.TransactionCount)
	assert.Equal(t, day("2025-11-17"), p.LastTransactionDate)
}

func TestBudgetProgressIncomeCategoryMeasuresTotalOutflow(t *testing.T) {
	// Spec scenario: a budget on the income category "Gehalt" tracks total
	// November expenses (150), not the salary transactions themselves.
	budget := Budget{ID: NewID(), CategoryID: "salary", Year: 2025, Month: 11, TotalAmount: dec("500")}
	txs := []Transaction{
		tx("salary", "2025-10-28", "2500"),
		tx("salary", "2025-11-28", "2700"),
		tx("fitness", "2025-11-03", "90"),
		tx("groceries", "2025-11-12", "60"),
	}

	p := ComputeBudgetProgress(progressInput(budget, txs))

	require.True(t, p.Spent.Equal(dec("150")), "spent=%s", p.Spent)
	assert.True(t, p.Remaining.Equal(dec("350")))
	assert.InDelta(t, 30.0, p.PercentageUsed, 1e-9)
	assert.Equal(t, 2, p.TransactionCount)
}

func TestBudgetProgressIncomeAsymmetryWithoutExpenses(t *testing.T) {
	// No expense transactions anywhere: an income budget reports zero spent
	// even though income transactions exist in the window.
	budget := Budget{ID: NewID(), CategoryID: "salary", Year: 2025, Month: 11, TotalAmount: dec("500")}
	txs := []Transaction{
		tx("salary", "2025-11-28", "2700"),
	}

	p := ComputeBudgetProgress(progressInput(budget, txs))

	assert.True(t, p.Spent.IsZero())
	assert.True(t, p.Remaining.Equal(dec("500")))
	assert.Equal(t, 0, p.TransactionCount)
	assert.True(t, p.LastTransactionDate.IsZero())
}

func TestBudgetProgressIncomeIgnoresOtherAccounts(t *testing.T) {
	// The savings target on account A only measures A's outflow. An expense on
	// a second account in the same window must not leak into spent.
	budget := Budget{ID: NewID(), CategoryID: "salary", Year: 2025, Month: 11, TotalAmount: dec("500")}
	cats, _ := testCategories()
	cats["rent"] = Category{ID: "rent", AccountID: "other", Name: "Miete", Type: Expense}

	foreign := Transaction{
		ID: NewID(), AccountID: "other", CategoryID: "rent",
		Date: day("2025-11-05"), Amount: dec("900"),
	}
	txs := []Transaction{
		tx("fitness", "2025-11-03", "90"),
		foreign,
	}

	in := progressInput(budget, txs)
	in.Categories = cats
	p := ComputeBudgetProgress(in)

	assert.True(t, p.Spent.Equal(dec("90")), "spent=%s", p.Spent)
	assert.Equal(t, 1, p.TransactionCount)
}

func TestBudgetProgressZeroCapYieldsZeroPercent(t *testing.T) {
	budget := Budget{ID: NewID(), CategoryID: "fitness", Year: 2025, Month: 11, TotalAmount: decimal.Zero}
	txs := []Transaction{tx("fitness", "2025-11-03", "40")}

	p := ComputeBudgetProgress(progressInput(budget, txs))

	assert.Equal(t, 0.0, p.PercentageUsed, "division by zero must be guarded, not an error")
	assert.True(t, p.Remaining.Equal(dec("-40")))
}

func TestBudgetProgressHalfOpenWindow(t *testing.T) {
	budget := Budget{ID: NewID(), CategoryID: "fitness", Year: 2025, Month: 11, TotalAmount: dec("100")}
	boundary := Transaction{
		ID: NewID(), AccountID: "acct", CategoryID: "fitness",
		Date: day("2025-12-01"), Amount: dec("40"), // first instant of next month
	}
	inside := tx("fitness", "2025-11-30", "10")

	p := ComputeBudgetProgress(progressInput(budget, []Transaction{boundary, inside}))
	assert.True(t, p.Spent.Equal(dec("10")), "boundary transaction belongs to December")

	next := Budget{ID: NewID(), CategoryID: "fitness", Year: 2025, Month: 12, TotalAmount: dec("100")}
	p = ComputeBudgetProgress(progressInput(next, []Transaction{boundary, inside}))
	assert.True(t, p.Spent.Equal(dec("40")), "boundary transaction must count in December")
}

func TestBudgetProgressMonotonicity(t *testing.T) {
	budget := Budget{ID: NewID(), CategoryID: "fitness", Year: 2025, Month: 11, TotalAmount: dec("200")}
	txs := []Transaction{tx("fitness", "2025-11-03", "40")}

	before := ComputeBudgetProgress(progressInput(budget, txs))
	txs = append(txs, tx("fitness", "2025-11-10", "15"))
	after := ComputeBudgetProgress(progressInput(budget, txs))

	assert.Greater(t, after.PercentageUsed, before.PercentageUsed)
	assert.True(t, after.Remaining.LessThan(before.Remaining))
}

func TestMergeBudgetsSumsDuplicates(t *testing.T) {
	budgets := []Budget{
		{ID: "a", CategoryID: "fitness", Year: 2025, Month: 11, TotalAmount: dec("40")},
		{ID: "b", CategoryID: "fitness", Year: 2025, Month: 11, TotalAmount: dec("60")},
		{ID: "c", CategoryID: "fitness", Year: 2025, Month: 12, TotalAmount: dec("40")},
	}

	merged := MergeBudgets(budgets)

	require.Len(t, merged, 2)
	assert.True(t, merged[0].TotalAmount.Equal(dec("100")), "duplicate caps are summed, not picked arbitrarily")
	assert.Equal(t, 12, merged[1].Month)
}
