package http

import (
	"context"

	"haushalt/internal/amqp"
	"haushalt/internal/core"
	"haushalt/internal/services"
)

// Store is the full ledger surface the HTTP handlers need: the read side
// shared with the services plus the write operations.
type Store interface {
	services.LedgerStore

	CreateAccount(ctx context.Context, a core.Account) (core.Account, error)

	CreateCategory(ctx context.Context, owner string, c core.Category) (core.Category, error)

	CreateTransaction(ctx context.Context, owner string, t core.Transaction) (core.Transaction, error)
	GetTransaction(ctx context.Context, owner string, id core.ID) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, owner string, t core.Transaction) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, owner string, id core.ID) error

	CreateBudget(ctx context.Context, owner string, b core.Budget) (core.Budget, error)
	UpdateBudget(ctx context.Context, owner string, b core.Budget) (core.Budget, error)
	DeleteBudget(ctx context.Context, owner string, id core.ID) error
}

// Publisher emits transaction change events. A nil Publisher disables
// publishing; writes still succeed and the worker catches up via its sweep.
type Publisher interface {
	PublishTransactionChanged(ctx context.Context, msg *amqp.TransactionChangedMessage) error
}
