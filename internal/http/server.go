// Package http exposes the ledger as a JSON API: accounts,
// transactions, budget, dashboard and the advisory endpoints.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Sunay4826/AI-finance-platform/internal/advisor"
	"github.com/Sunay4826/AI-finance-platform/internal/core"
	"github.com/Sunay4826/AI-finance-platform/internal/log"
	"github.com/Sunay4826/AI-finance-platform/internal/middleware/auth"
	"github.com/Sunay4826/AI-finance-platform/internal/middleware/ratelimit"
	"github.com/Sunay4826/AI-finance-platform/internal/middleware/trace"
	"github.com/Sunay4826/AI-finance-platform/internal/services"
)

// Server wires the service layer to HTTP routes.
type Server struct {
	http.Server

	users     *services.UserService
	accounts  *services.AccountService
	ledger    *services.LedgerService
	budgets   *services.BudgetService
	dashboard *services.DashboardService
	advisor   *advisor.Service

	limiter *ratelimit.Limiter
	logger  *log.Logger
}

// Deps carries everything the server needs.
type Deps struct {
	Users     *services.UserService
	Accounts  *services.AccountService
	Ledger    *services.LedgerService
	Budgets   *services.BudgetService
	Dashboard *services.DashboardService
	Advisor   *advisor.Service

	JWTManager *auth.JWTManager
	Limiter    *ratelimit.Limiter
	Logger     *log.Logger
}

// NewServer configures routes and middleware, returning a
// ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		users:     deps.Users,
		accounts:  deps.Accounts,
		ledger:    deps.Ledger,
		budgets:   deps.Budgets,
		dashboard: deps.Dashboard,
		advisor:   deps.Advisor,
		limiter:   deps.Limiter,
		logger:    deps.Logger.WithComponent(log.ComponentHTTP),
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/accounts", s.handleListAccounts)
	api.HandleFunc("POST /api/accounts", s.handleCreateAccount)
	api.HandleFunc("GET /api/accounts/{id}", s.handleGetAccount)
	api.HandleFunc("GET /api/accounts/{id}/suggestions", s.handleSuggestions)

	api.HandleFunc("GET /api/transactions", s.handleListTransactions)
	api.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	api.HandleFunc("GET /api/transactions/export", s.handleExportTransactions)
	api.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	api.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	api.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	api.HandleFunc("GET /api/budget", s.handleGetBudget)
	api.HandleFunc("PUT /api/budget", s.handleSetBudget)

	api.HandleFunc("GET /api/dashboard", s.handleDashboard)
	api.HandleFunc("POST /api/receipts/scan", s.handleReceiptScan)

	authenticate := auth.Middleware(deps.JWTManager, func(w http.ResponseWriter, r *http.Request, err error) {
		s.writeError(w, r, err)
	})
	traced := trace.NewMiddleware(deps.Logger)
	mux.Handle("/api/", traced.Middleware(authenticate(s.rateLimited(api))))

	return s
}

// rateLimited throttles per authenticated user. It runs after auth so
// the principal is always on the context.
func (s *Server) rateLimited(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := trace.ClientIP(r)
		if p, ok := auth.PrincipalFrom(r.Context()); ok {
			key = p.ID
		}
		if !s.limiter.Allow(key) {
			s.writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// currentUser resolves the request principal to a ledger user, creating
// the user row on first contact.
func (s *Server) currentUser(r *http.Request) (*core.User, error) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		return nil, core.ErrUnauthorized
	}
	return s.users.EnsureUser(r.Context(), p)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Shutdown stops the listener and the rate limiter cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	return s.Server.Shutdown(ctx)
}
