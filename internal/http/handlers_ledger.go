package http

import (
	"net/http"

	"finviz/internal/core"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.ListTransactions(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if err := decodeJSON(r, &t); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.ledger.CreateTransaction(r.Context(), t)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.flushViews()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if err := decodeJSON(r, &t); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t.ID = r.PathValue("id")

	if err := s.ledger.UpdateTransaction(r.Context(), t); err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.flushViews()
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.flushViews()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.ledger.ListBudgets(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if budgets == nil {
		budgets = []core.Budget{}
	}
	writeJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var b core.Budget
	if err := decodeJSON(r, &b); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.ledger.CreateBudget(r.Context(), b)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.flushViews()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var b core.Budget
	if err := decodeJSON(r, &b); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b.ID = r.PathValue("id")

	if err := s.ledger.UpdateBudget(r.Context(), b); err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.flushViews()
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteBudget(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.flushViews()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBudgetMonths(w http.ResponseWriter, r *http.Request) {
	months, err := s.ledger.ListBudgetMonths(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if months == nil {
		months = []string{}
	}
	writeJSON(w, http.StatusOK, months)
}
