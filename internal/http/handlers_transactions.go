package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"haushalt/internal/amqp"
	"haushalt/internal/core"
	"haushalt/internal/services"
)

type transactionRequest struct {
	AccountID  string `json:"account_id"`
	CategoryID string `json:"category_id"`
	Date       string `json:"date"`
	Amount     string `json:"amount"`
	Note       string `json:"note"`
}

func (s *Server) transactionFromRequest(req transactionRequest) (core.Transaction, error) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		return core.Transaction{}, errInvalidDate
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}

	return core.Transaction{
		AccountID:  core.ID(req.AccountID),
		CategoryID: core.ID(req.CategoryID),
		Date:       date,
		Amount:     amount,
		Note:       req.Note,
	}, nil
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	tx, err := s.transactionFromRequest(req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	tx.ID = core.NewID()
	if err := tx.Validate(); err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.store.CreateTransaction(r.Context(), ownerFromContext(r.Context()), tx)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.publishChange(r.Context(), created.ID, created.AccountID, amqp.ActionCreated)
	respondJSON(w, http.StatusCreated, newTransactionResponse(created))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter := services.TransactionFilter{
		AccountID:  core.ID(r.URL.Query().Get("account_id")),
		CategoryID: core.ID(r.URL.Query().Get("category_id")),
	}

	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		from, err := time.Parse(dateLayout, v)
		if err != nil {
			respondBadRequest(w, "invalid from date")
			return
		}
		filter.From = from
	}
	if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
		to, err := time.Parse(dateLayout, v)
		if err != nil {
			respondBadRequest(w, "invalid to date")
			return
		}
		filter.To = to
	}

	txs, err := s.store.ListTransactions(r.Context(), ownerFromContext(r.Context()), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	views := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		views = append(views, newTransactionResponse(t))
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id := core.ID(chi.URLParam(r, "id"))

	tx, err := s.store.GetTransaction(r.Context(), ownerFromContext(r.Context()), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newTransactionResponse(tx))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := core.ID(chi.URLParam(r, "id"))

	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	tx, err := s.transactionFromRequest(req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	tx.ID = id
	if err := tx.Validate(); err != nil {
		respondError(w, r, err)
		return
	}

	// Transactions never move between accounts; a differing account_id would
	// otherwise be silently ignored by the update.
	existing, err := s.store.GetTransaction(r.Context(), ownerFromContext(r.Context()), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if tx.AccountID != existing.AccountID {
		respondError(w, r, fmt.Errorf("%w: account_id does not match the transaction's account", core.ErrValidation))
		return
	}

	updated, err := s.store.UpdateTransaction(r.Context(), ownerFromContext(r.Context()), tx)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.publishChange(r.Context(), updated.ID, updated.AccountID, amqp.ActionUpdated)
	respondJSON(w, http.StatusOK, newTransactionResponse(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := core.ID(chi.URLParam(r, "id"))
	owner := ownerFromContext(r.Context())

	// Resolve the account before the row disappears; the change event needs it.
	tx, err := s.store.GetTransaction(r.Context(), owner, id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.store.DeleteTransaction(r.Context(), owner, id); err != nil {
		respondError(w, r, err)
		return
	}

	s.publishChange(r.Context(), id, tx.AccountID, amqp.ActionDeleted)
	w.WriteHeader(http.StatusNoContent)
}

// queryInt parses an optional integer query parameter; absent means 0.
func queryInt(r *http.Request, name string) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
