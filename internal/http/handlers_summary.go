package http

import (
	"net/http"

	"haushalt/internal/core"
	"haushalt/internal/metrics"
	"haushalt/internal/services"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
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
	recentLimit, err := queryInt(r, "recent_limit")
	if err != nil {
		respondBadRequest(w, "invalid recent_limit")
		return
	}
	topCategories, err := queryInt(r, "top_categories")
	if err != nil {
		respondBadRequest(w, "invalid top_categories")
		return
	}

	summary, err := s.summaries.PeriodSummary(r.Context(), ownerFromContext(r.Context()), services.SummaryRequest{
		AccountID:     core.ID(r.URL.Query().Get("account_id")),
		Year:          year,
		Month:         month,
		RecentLimit:   recentLimit,
		TopCategories: topCategories,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	metrics.SummariesComposed.Inc()
	respondJSON(w, http.StatusOK, newSummaryView(summary))
}
