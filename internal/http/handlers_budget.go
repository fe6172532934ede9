package http

import (
	"net/http"
	"time"

	"github.com/Sunay4826/AI-finance-platform/internal/core"
)

type setBudgetRequest struct {
	Amount string `json:"amount"`
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	usage, err := s.budgets.GetCurrentUsage(r.Context(), user.ID, r.URL.Query().Get("accountId"), time.Now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toBudgetUsageResponse(usage))
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req setBudgetRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	budget, err := s.budgets.SetBudget(r.Context(), user.ID, amount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"amount":    budget.Amount.StringFixed(2),
		"updatedAt": budget.UpdatedAt.UTC().Format(time.RFC3339),
	})
}
