package http

import (
	"net/http"

	"github.com/Sunay4826/AI-finance-platform/internal/core"
	"github.com/Sunay4826/AI-finance-platform/internal/services"
)

type createAccountRequest struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Balance   string `json:"balance"`
	IsDefault bool   `json:"isDefault"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req createAccountRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	balance, err := core.ParseBalance(req.Balance)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	account, err := s.accounts.CreateAccount(r.Context(), user.ID, services.AccountInput{
		Name:      req.Name,
		Type:      core.AccountType(req.Type),
		Balance:   balance,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	accounts, err := s.accounts.ListAccounts(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toAccountResponses(accounts))
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	account, err := s.accounts.GetAccount(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toAccountResponse(account))
}
