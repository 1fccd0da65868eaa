package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AccountChecking   AccountType = "CHECKING"
	AccountSavings    AccountType = "SAVINGS"
	AccountCreditCard AccountType = "CREDIT_CARD"
	AccountInvestment AccountType = "INVESTMENT"
	AccountCash       AccountType = "CASH"
	AccountOther      AccountType = "OTHER"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

type (
	// ID is an opaque entity identifier. It is generated once at creation and
	// serialized as-is at every boundary.
	ID string

	AccountType     string
	TransactionType string

	Account struct {
		ID    ID
		Owner string
		Name  string
		Type  AccountType
		// InitialBalance is fixed at creation and never derived from activity.
		InitialBalance decimal.Decimal
		IsActive       bool
		Note           string
		CreatedAt      time.Time
		UpdatedAt      time.Time
	}

	// Category classifies transactions as INCOME or EXPENSE. The type is fixed
	// per category; a transaction's effective sign always comes from here.
	Category struct {
		ID          ID
		AccountID   ID
		Name        string
		Type        TransactionType
		Emoji       string
		Color       string
		Description string
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	// Transaction is a dated non-negative monetary event. CategoryID is empty
	// until the transaction has been categorized; an uncategorized transaction
	// contributes zero to every aggregation.
	Transaction struct {
		ID         ID
		AccountID  ID
		CategoryID ID
		Date       time.Time
		Amount     decimal.Decimal
		Note       string
		CreatedAt  time.Time
		UpdatedAt  time.Time
	}

	// Budget caps spending for one category in one calendar month. It is keyed
	// strictly by (CategoryID, Year, Month); there is no free-text label.
	Budget struct {
		ID          ID
		CategoryID  ID
		Year        int
		Month       int
		TotalAmount decimal.Decimal
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBudgetNotFound      = errors.New("budget not found")

	ErrInvalidPeriod          = errors.New("invalid period")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrNegativeAmount         = errors.New("amount must not be negative")
	ErrEmptyName              = errors.New("empty name")
	ErrMissingOwner           = errors.New("missing owner")
	ErrInvalidAccountType     = errors.New("invalid account type")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrDuplicateBudget        = errors.New("budget already exists for category and period")
	ErrValidation             = errors.New("invalid input")
	ErrActiveAccountExists    = errors.New("owner already has an active account")
)

// NewID returns a fresh opaque identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

func (t AccountType) Valid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCreditCard, AccountInvestment, AccountCash, AccountOther:
		return true
	}
	return false
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Owner) == "" {
		return ErrMissingOwner
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if !a.Type.Valid() {
		return ErrInvalidAccountType
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.AccountID == "" {
		return fmt.Errorf("%w: category must belong to an account", ErrValidation)
	}
	if !c.Type.Valid() {
		return ErrInvalidTransactionType
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.AccountID == "" {
		return fmt.Errorf("%w: transaction must belong to an account", ErrValidation)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: transaction date cannot be zero", ErrValidation)
	}
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if len(t.Note) > 500 {
		return fmt.Errorf("%w: note too long (max 500 characters)", ErrValidation)
	}
	return nil
}

func (b Budget) Validate() error {
	if b.CategoryID == "" {
		return fmt.Errorf("%w: budget must reference a category", ErrValidation)
	}
	if err := (Period{Year: b.Year, Month: b.Month}).Validate(); err != nil {
		return err
	}
	if b.TotalAmount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// Key identifies the calendar slot a budget occupies. Duplicate budgets sharing
// a key are merged by summing their caps before aggregation.
func (b Budget) Key() BudgetKey {
	return BudgetKey{CategoryID: b.CategoryID, Year: b.Year, Month: b.Month}
}

type BudgetKey struct {
	CategoryID ID
	Year       int
	Month      int
}

// CategoryIndex builds an ID lookup so transaction classification is O(1) per
// transaction instead of a scan over the category list.
func CategoryIndex(cats []Category) map[ID]Category {
	idx := make(map[ID]Category, len(cats))
	for _, c := range cats {
		idx[c.ID] = c
	}
	return idx
}
