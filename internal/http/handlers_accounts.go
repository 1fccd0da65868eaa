package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"haushalt/internal/core"
)

type createAccountRequest struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	InitialBalance string `json:"initial_balance"`
	IsActive       bool   `json:"is_active"`
	Note           string `json:"note"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	balance, err := core.ParseAmount(req.InitialBalance)
	if err != nil {
		respondError(w, r, err)
		return
	}

	acct := core.Account{
		ID:             core.NewID(),
		Owner:          ownerFromContext(r.Context()),
		Name:           req.Name,
		Type:           core.AccountType(req.Type),
		InitialBalance: balance,
		IsActive:       req.IsActive,
		Note:           req.Note,
	}
	if err := acct.Validate(); err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.store.CreateAccount(r.Context(), acct)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, newAccountView(created))
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	views := make([]accountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, newAccountView(a))
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id := core.ID(chi.URLParam(r, "id"))

	acct, err := s.store.GetAccount(r.Context(), ownerFromContext(r.Context()), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newAccountView(acct))
}

func (s *Server) handleAccountBalance(w http.ResponseWriter, r *http.Request) {
	id := core.ID(chi.URLParam(r, "id"))

	sum, err := s.balances.AccountBalance(r.Context(), ownerFromContext(r.Context()), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newBalanceView(sum))
}
