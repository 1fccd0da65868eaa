// Package http exposes the ledger over a JSON API.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"haushalt/internal/amqp"
	"haushalt/internal/core"
	"haushalt/internal/log"
	"haushalt/internal/services"
)

type Server struct {
	http.Server

	store     Store
	publisher Publisher

	balances  *services.BalanceService
	budgets   *services.BudgetService
	summaries *services.SummaryService
}

type Options struct {
	Port           string
	MetricsEnabled bool
}

// NewServer wires the API around a store. publisher may be nil; change events
// are then skipped and the worker relies on its backup sweep.
func NewServer(store Store, publisher Publisher, opts Options) *Server {
	s := &Server{
		store:     store,
		publisher: publisher,
		balances:  services.NewBalanceService(store),
		budgets:   services.NewBudgetService(store),
		summaries: services.NewSummaryService(store),
	}

	s.Addr = ":" + opts.Port
	s.Handler = s.routes(opts.MetricsEnabled)
	s.ReadHeaderTimeout = 10 * time.Second
	return s
}

func (s *Server) routes(metricsEnabled bool) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(instrument)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(requireOwner)

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", s.handleCreateAccount)
			r.Get("/", s.handleListAccounts)
			r.Get("/{id}", s.handleGetAccount)
			r.Get("/{id}/balance", s.handleAccountBalance)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", s.handleCreateCategory)
			r.Get("/", s.handleListCategories)
			r.Get("/{id}", s.handleGetCategory)
			r.Get("/{id}/budget-progress", s.handleCategoryBudgetProgress)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", s.handleCreateTransaction)
			r.Get("/", s.handleListTransactions)
			r.Get("/{id}", s.handleGetTransaction)
			r.Put("/{id}", s.handleUpdateTransaction)
			r.Delete("/{id}", s.handleDeleteTransaction)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Post("/", s.handleCreateBudget)
			r.Get("/", s.handleListBudgets)
			r.Get("/{id}", s.handleGetBudget)
			r.Put("/{id}", s.handleUpdateBudget)
			r.Delete("/{id}", s.handleDeleteBudget)
			r.Get("/{id}/progress", s.handleBudgetProgress)
		})

		r.Get("/summary", s.handleSummary)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]string{"store": "ok"}

	// A cheap read proves the database is reachable.
	if _, err := s.store.ListAccounts(ctx, "readiness-probe"); err != nil {
		checks["store"] = err.Error()
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	}

	respondJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// publishChange emits a change event without failing the request. The write
// already committed; the worker's sweep covers lost events.
func (s *Server) publishChange(ctx context.Context, transactionID, accountID core.ID, action string) {
	if s.publisher == nil {
		return
	}
	msg := amqp.NewTransactionChangedMessage(transactionID, accountID, action)
	if err := s.publisher.PublishTransactionChanged(ctx, msg); err != nil {
		slog.WarnContext(ctx, "Failed to publish change event",
			log.FieldTransactionID, transactionID, log.FieldError, err)
	}
}
