package http

import (
	"net/http"
)

type dashboardResponse struct {
	Accounts     []accountResponse     `json:"accounts"`
	Transactions []transactionResponse `json:"transactions"`
	Budget       budgetUsageResponse   `json:"budget"`
}

// handleDashboard returns the bootstrap payload. Partial backend
// failures degrade to empty sections rather than failing the whole
// request.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data := s.dashboard.Bootstrap(r.Context(), user.ID)
	s.writeJSON(w, http.StatusOK, dashboardResponse{
		Accounts:     toAccountResponses(data.Accounts),
		Transactions: toTransactionResponses(data.Transactions),
		Budget:       toBudgetUsageResponse(&data.Budget),
	})
}
