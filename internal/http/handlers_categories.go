package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"haushalt/internal/core"
)

type createCategoryRequest struct {
	AccountID   string `json:"account_id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Emoji       string `json:"emoji"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	cat := core.Category{
		ID:          core.NewID(),
		AccountID:   core.ID(req.AccountID),
		Name:        req.Name,
		Type:        core.TransactionType(req.Type),
		Emoji:       req.Emoji,
		Color:       req.Color,
		Description: req.Description,
	}
	if err := cat.Validate(); err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.store.CreateCategory(r.Context(), ownerFromContext(r.Context()), cat)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, newCategoryView(created))
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	accountID := core.ID(r.URL.Query().Get("account_id"))

	cats, err := s.store.ListCategories(r.Context(), ownerFromContext(r.Context()), accountID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	views := make([]categoryView, 0, len(cats))
	for _, c := range cats {
		views = append(views, newCategoryView(c))
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id := core.ID(chi.URLParam(r, "id"))

	cat, err := s.store.GetCategory(r.Context(), ownerFromContext(r.Context()), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newCategoryView(cat))
}

// handleCategoryBudgetProgress reports the progress of a category's budget in
// the requested period. Omitted year/month default to the current month.
func (s *Server) handleCategoryBudgetProgress(w http.ResponseWriter, r *http.Request) {
	id := core.ID(chi.URLParam(r, "id"))

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

	period, err := core.PeriodOrCurrent(year, month, time.Now())
	if err != nil {
		respondError(w, r, err)
		return
	}

	p, err := s.budgets.ProgressForCategory(r.Context(), ownerFromContext(r.Context()), id, period)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newProgressView(p))
}
