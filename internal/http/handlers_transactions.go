package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Sunay4826/AI-finance-platform/internal/core"
	"github.com/Sunay4826/AI-finance-platform/internal/services"
	"github.com/Sunay4826/AI-finance-platform/internal/storage"
)

type transactionRequest struct {
	AccountID         string `json:"accountId"`
	Type              string `json:"type"`
	Amount            string `json:"amount"`
	Date              string `json:"date"`
	Category          string `json:"category"`
	Description       string `json:"description"`
	IsRecurring       bool   `json:"isRecurring"`
	RecurringInterval string `json:"recurringInterval"`
}

func (req transactionRequest) toInput() (services.TransactionInput, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return services.TransactionInput{}, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return services.TransactionInput{}, err
	}
	return services.TransactionInput{
		AccountID:         req.AccountID,
		Type:              core.TransactionType(req.Type),
		Amount:            amount,
		Date:              date,
		Category:          req.Category,
		Description:       req.Description,
		IsRecurring:       req.IsRecurring,
		RecurringInterval: core.RecurringInterval(req.RecurringInterval),
	}, nil
}

// parseDate accepts RFC 3339 timestamps and plain calendar dates.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, core.ErrInvalidDate
	}
	return t, nil
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req transactionRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	input, err := req.toInput()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	transaction, err := s.ledger.CreateTransaction(r.Context(), user.ID, input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toTransactionResponse(transaction))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	transaction, err := s.ledger.GetTransaction(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toTransactionResponse(transaction))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req transactionRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	input, err := req.toInput()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	transaction, err := s.ledger.UpdateTransaction(r.Context(), user.ID, r.PathValue("id"), input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toTransactionResponse(transaction))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.ledger.DeleteTransaction(r.Context(), user.ID, r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	transactions, err := s.ledger.ListTransactions(r.Context(), user.ID, listOptions(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toTransactionResponses(transactions))
}

func listOptions(r *http.Request) storage.ListOptions {
	opts := storage.ListOptions{
		AccountID: r.URL.Query().Get("accountId"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			opts.Limit = limit
		}
	}
	return opts
}
