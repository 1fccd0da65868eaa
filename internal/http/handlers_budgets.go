package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"haushalt/internal/core"
	"haushalt/internal/services"
)

type budgetRequest struct {
	CategoryID  string `json:"category_id"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	TotalAmount string `json:"total_amount"`
}

func budgetFromRequest(req budgetRequest) (core.Budget, error) {
	amount, err := core.ParseAmount(req.TotalAmount)
	if err != nil {
		return core.Budget{}, err
	}
	return core.Budget{
		CategoryID:  core.ID(req.CategoryID),
		Year:        req.Year,
		Month:       req.Month,
		TotalAmount: amount,
	}, nil
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	b, err := budgetFromRequest(req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	b.ID = core.NewID()
	if err := b.Validate(); err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.store.CreateBudget(r.Context(), ownerFromContext(r.Context()), b)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, newBudgetView(created))
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year")
	if err != nil {
		respondBadRequest(w, "invalid year")
		return
	}
	month, err := queryInt(r, "month")
	if err != nil {
		respondBadRequest(w, "invalid month")
		return
	}

	budgets, err := s.store.ListBudgets(r.Context(), ownerFromContext(r.Context()), services.BudgetFilter{
		Year:      year,
		Month:     month,
		AccountID: core.ID(r.URL.Query().Get("account_id")),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	views := make([]budgetView, 0, len(budgets))
	for _, b := range budgets {
		views = append(views, newBudgetView(b))
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	id := core.ID(chi.URLParam(r, "id"))

	b, err := s.store.GetBudget(r.Context(), ownerFromContext(r.Context()), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newBudgetView(b))
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id := core.ID(chi.URLParam(r, "id"))

	var req budgetRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	b, err := budgetFromRequest(req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	b.ID = id
	if err := b.Validate(); err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := s.store.UpdateBudget(r.Context(), ownerFromContext(r.Context()), b)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newBudgetView(updated))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id := core.ID(chi.URLParam(r, "id"))

	if err := s.store.DeleteBudget(r.Context(), ownerFromContext(r.Context()), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBudgetProgress(w http.ResponseWriter, r *http.Request) {
	id := core.ID(chi.URLParam(r, "id"))

	p, err := s.budgets.Progress(r.Context(), ownerFromContext(r.Context()), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newProgressView(p))
}
