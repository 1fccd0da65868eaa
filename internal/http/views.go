package http

import (
	"time"

	"github.com/shopspring/decimal"

	"haushalt/internal/core"
)

const dateLayout = "2006-01-02"

type accountView struct {
	ID             core.ID         `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	IsActive       bool            `json:"is_active"`
	Note           string          `json:"note,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func newAccountView(a core.Account) accountView {
	return accountView{
		ID:             a.ID,
		Name:           a.Name,
		Type:           string(a.Type),
		InitialBalance: a.InitialBalance,
		IsActive:       a.IsActive,
		Note:           a.Note,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

type categoryView struct {
	ID          core.ID   `json:"id"`
	AccountID   core.ID   `json:"account_id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Emoji       string    `json:"emoji,omitempty"`
	Color       string    `json:"color,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newCategoryView(c core.Category) categoryView {
	return categoryView{
		ID:          c.ID,
		AccountID:   c.AccountID,
		Name:        c.Name,
		Type:        string(c.Type),
		Emoji:       c.Emoji,
		Color:       c.Color,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type transactionResponse struct {
	ID         core.ID         `json:"id"`
	AccountID  core.ID         `json:"account_id"`
	CategoryID core.ID         `json:"category_id,omitempty"`
	Date       string          `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func newTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:         t.ID,
		AccountID:  t.AccountID,
		CategoryID: t.CategoryID,
		Date:       t.Date.Format(dateLayout),
		Amount:     t.Amount,
		Note:       t.Note,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

type budgetView struct {
	ID          core.ID         `json:"id"`
	CategoryID  core.ID         `json:"category_id"`
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func newBudgetView(b core.Budget) budgetView {
	return budgetView{
		ID:          b.ID,
		CategoryID:  b.CategoryID,
		Year:        b.Year,
		Month:       b.Month,
		TotalAmount: b.TotalAmount,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

type balanceView struct {
	Balance             decimal.Decimal `json:"balance"`
	TotalIncome         decimal.Decimal `json:"total_income"`
	TotalExpenses       decimal.Decimal `json:"total_expenses"`
	TransactionCount    int             `json:"transaction_count"`
	LastTransactionDate string          `json:"last_transaction_date,omitempty"`
}

func newBalanceView(b core.BalanceSummary) balanceView {
	v := balanceView{
		Balance:          b.Balance,
		TotalIncome:      b.TotalIncome,
		TotalExpenses:    b.TotalExpenses,
		TransactionCount: b.TransactionCount,
	}
	if !b.LastTransactionDate.IsZero() {
		v.LastTransactionDate = b.LastTransactionDate.Format(dateLayout)
	}
	return v
}

type progressView struct {
	Spent               decimal.Decimal `json:"spent"`
	Remaining           decimal.Decimal `json:"remaining"`
	PercentageUsed      float64         `json:"percentage_used"`
	TransactionCount    int             `json:"transaction_count"`
	LastTransactionDate string          `json:"last_transaction_date,omitempty"`
}

func newProgressView(p core.Progress) progressView {
	v := progressView{
		Spent:            p.Spent,
		Remaining:        p.Remaining,
		PercentageUsed:   p.PercentageUsed,
		TransactionCount: p.TransactionCount,
	}
	if !p.LastTransactionDate.IsZero() {
		v.LastTransactionDate = p.LastTransactionDate.Format(dateLayout)
	}
	return v
}

type kpisView struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetBalance    decimal.Decimal `json:"net_balance"`
	SavingsRate   float64         `json:"savings_rate"`
}

type categoryExpenseView struct {
	CategoryID core.ID         `json:"category_id"`
	Name       string          `json:"name"`
	Emoji      string          `json:"emoji,omitempty"`
	Color      string          `json:"color,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}

type budgetStatusView struct {
	Budget       budgetView   `json:"budget"`
	CategoryName string       `json:"category_name"`
	CategoryType string       `json:"category_type"`
	Progress     progressView `json:"progress"`
}

type recentTransactionView struct {
	ID           core.ID         `json:"id"`
	AccountID    core.ID         `json:"account_id"`
	Date         string          `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Note         string          `json:"note,omitempty"`
	CategoryID   core.ID         `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name,omitempty"`
	Emoji        string          `json:"emoji,omitempty"`
	Type         string          `json:"type,omitempty"`
}

type summaryView struct {
	Year               int                     `json:"year"`
	Month              int                     `json:"month"`
	KPIs               kpisView                `json:"kpis"`
	CategoryBreakdown  []categoryExpenseView   `json:"category_breakdown"`
	BudgetProgress     []budgetStatusView      `json:"budget_progress"`
	RecentTransactions []recentTransactionView `json:"recent_transactions"`
}

func newSummaryView(s core.Summary) summaryView {
	v := summaryView{
		Year:  s.Period.Year,
		Month: s.Period.Month,
		KPIs: kpisView{
			TotalIncome:   s.KPIs.TotalIncome,
			TotalExpenses: s.KPIs.TotalExpenses,
			NetBalance:    s.KPIs.NetBalance,
			SavingsRate:   s.KPIs.SavingsRate,
		},
		CategoryBreakdown:  []categoryExpenseView{},
		BudgetProgress:     []budgetStatusView{},
		RecentTransactions: []recentTransactionView{},
	}
	for _, ce := range s.CategoryBreakdown {
		v.CategoryBreakdown = append(v.CategoryBreakdown, categoryExpenseView{
			CategoryID: ce.CategoryID,
			Name:       ce.Name,
			Emoji:      ce.Emoji,
			Color:      ce.Color,
			Amount:     ce.Amount,
		})
	}
	for _, bs := range s.BudgetProgress {
		v.BudgetProgress = append(v.BudgetProgress, budgetStatusView{
			Budget:       newBudgetView(bs.Budget),
			CategoryName: bs.CategoryName,
			CategoryType: string(bs.CategoryType),
			Progress:     newProgressView(bs.Progress),
		})
	}
	for _, tv := range s.RecentTransactions {
		v.RecentTransactions = append(v.RecentTransactions, recentTransactionView{
			ID:           tv.ID,
			AccountID:    tv.AccountID,
			Date:         tv.Date.Format(dateLayout),
			Amount:       tv.Amount,
			Note:         tv.Note,
			CategoryID:   tv.CategoryID,
			CategoryName: tv.CategoryName,
			Emoji:        tv.Emoji,
			Type:         string(tv.Type),
		})
	}
	return v
}
