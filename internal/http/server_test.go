package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Sunay4826/AI-finance-platform/internal/advisor"
	"github.com/Sunay4826/AI-finance-platform/internal/log"
	"github.com/Sunay4826/AI-finance-platform/internal/middleware/auth"
	"github.com/Sunay4826/AI-finance-platform/internal/middleware/ratelimit"
	"github.com/Sunay4826/AI-finance-platform/internal/services"
	"github.com/Sunay4826/AI-finance-platform/internal/storage"
)

const testSecret = "test-secret-0123456789"

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "finance.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	logger := log.New(log.Config{Component: "test"})
	advisorService := advisor.NewService(advisor.Config{}, nil, repo, logger)
	budgetService := services.NewBudgetService(repo, decimal.NewFromInt(1_000_000))

	jwtManager := auth.NewJWTManager(testSecret, time.Hour)
	srv := NewServer(":0", Deps{
		Users:      services.NewUserService(repo),
		Accounts:   services.NewAccountService(repo),
		Ledger:     services.NewLedgerService(repo, nil, advisorService),
		Budgets:    budgetService,
		Dashboard:  services.NewDashboardService(repo, budgetService),
		Advisor:    advisorService,
		JWTManager: jwtManager,
		Limiter:    ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: 1000}),
		Logger:     logger,
	})
	t.Cleanup(func() { srv.limiter.Stop() })

	token, err := jwtManager.Generate(services.Principal{ID: "ext-1", Name: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return srv, token
}

func doRequest(t *testing.T, srv *Server, token, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return v
}

func createAccount(t *testing.T, srv *Server, token, name string, balance string, isDefault bool) accountResponse {
	t.Helper()
	rec := doRequest(t, srv, token, http.MethodPost, "/api/accounts", map[string]any{
		"name": name, "type": "CHECKING", "balance": balance, "isDefault": isDefault,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account status = %d, body %s", rec.Code, rec.Body.String())
	}
	return decodeJSON[accountResponse](t, rec)
}

func TestRequestsWithoutTokenRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbage token", "not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, tt.token, http.MethodGet, "/api/accounts", nil)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestHealthEndpointUnauthenticated(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv, "", http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAccountLifecycle(t *testing.T) {
	srv, token := newTestServer(t)

	first := createAccount(t, srv, token, "Main", "100.00", false)
	if !first.IsDefault {
		t.Error("first account not forced default")
	}
	if first.Balance != "100.00" {
		t.Errorf("Balance = %q, want 100.00", first.Balance)
	}

	second := createAccount(t, srv, token, "Savings", "", true)
	if second.Balance != "0.00" {
		t.Errorf("empty opening balance = %q, want 0.00", second.Balance)
	}

	rec := doRequest(t, srv, token, http.MethodGet, "/api/accounts", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	accounts := decodeJSON[[]accountResponse](t, rec)
	if len(accounts) != 2 {
		t.Fatalf("accounts = %d, want 2", len(accounts))
	}
	for _, a := range accounts {
		if a.ID == first.ID && a.IsDefault {
			t.Error("previous default not flipped off")
		}
	}
}

func TestTransactionLifecycleAdjustsBalance(t *testing.T) {
	srv, token := newTestServer(t)
	account := createAccount(t, srv, token, "Main", "100.00", true)

	rec := doRequest(t, srv, token, http.MethodPost, "/api/transactions", map[string]any{
		"accountId": account.ID,
		"type":      "EXPENSE",
		"amount":    "30.50",
		"date":      "2025-03-10",
		"category":  "groceries",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeJSON[transactionResponse](t, rec)

	rec = doRequest(t, srv, token, http.MethodGet, "/api/accounts/"+account.ID, nil)
	got := decodeJSON[accountResponse](t, rec)
	if got.Balance != "69.50" {
		t.Errorf("balance after expense = %q, want 69.50", got.Balance)
	}
	if got.TransactionCount != 1 {
		t.Errorf("TransactionCount = %d, want 1", got.TransactionCount)
	}

	rec = doRequest(t, srv, token, http.MethodDelete, "/api/transactions/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doRequest(t, srv, token, http.MethodGet, "/api/accounts/"+account.ID, nil)
	if got := decodeJSON[accountResponse](t, rec); got.Balance != "100.00" {
		t.Errorf("balance after delete = %q, want 100.00", got.Balance)
	}
}

func TestTransactionValidationMapsTo422(t *testing.T) {
	srv, token := newTestServer(t)
	account := createAccount(t, srv, token, "Main", "100.00", true)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"zero amount", map[string]any{
			"accountId": account.ID, "type": "EXPENSE", "amount": "0", "date": "2025-03-10", "category": "x"}},
		{"bad type", map[string]any{
			"accountId": account.ID, "type": "TRANSFER", "amount": "5", "date": "2025-03-10", "category": "x"}},
		{"bad interval", map[string]any{
			"accountId": account.ID, "type": "EXPENSE", "amount": "5", "date": "2025-03-10", "category": "x",
			"isRecurring": true, "recurringInterval": "FORTNIGHTLY"}},
		{"bad date", map[string]any{
			"accountId": account.ID, "type": "EXPENSE", "amount": "5", "date": "soon", "category": "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, token, http.MethodPost, "/api/transactions", tt.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422, body %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestUnknownTransactionMapsTo404(t *testing.T) {
	srv, token := newTestServer(t)
	createAccount(t, srv, token, "Main", "100.00", true)

	rec := doRequest(t, srv, token, http.MethodGet, "/api/transactions/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestBudgetRoundTrip(t *testing.T) {
	srv, token := newTestServer(t)

	rec := doRequest(t, srv, token, http.MethodPut, "/api/budget", map[string]any{"amount": "500.00"})
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, token, http.MethodGet, "/api/budget", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	usage := decodeJSON[budgetUsageResponse](t, rec)
	if usage.Amount != "500.00" {
		t.Errorf("Amount = %q, want 500.00", usage.Amount)
	}

	rec = doRequest(t, srv, token, http.MethodPut, "/api/budget", map[string]any{"amount": "-1"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("negative budget status = %d, want 422", rec.Code)
	}
}

func TestDashboardReturnsAllSections(t *testing.T) {
	srv, token := newTestServer(t)
	account := createAccount(t, srv, token, "Main", "100.00", true)
	doRequest(t, srv, token, http.MethodPost, "/api/transactions", map[string]any{
		"accountId": account.ID, "type": "EXPENSE", "amount": "10", "date": "2025-03-10", "category": "x",
	})

	rec := doRequest(t, srv, token, http.MethodGet, "/api/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data := decodeJSON[dashboardResponse](t, rec)
	if len(data.Accounts) != 1 || len(data.Transactions) != 1 {
		t.Errorf("dashboard = %d accounts, %d transactions", len(data.Accounts), len(data.Transactions))
	}
}

func TestSuggestionsDisabledAdvisorMapsTo503(t *testing.T) {
	srv, token := newTestServer(t)
	account := createAccount(t, srv, token, "Main", "100.00", true)

	rec := doRequest(t, srv, token, http.MethodGet, "/api/accounts/"+account.ID+"/suggestions", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 with advisor disabled", rec.Code)
	}
}

func TestPerUserRateLimit(t *testing.T) {
	srv, token := newTestServer(t)
	srv.limiter.Stop()
	srv.limiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: 2})
	t.Cleanup(func() { srv.limiter.Stop() })

	for i := 0; i < 2; i++ {
		if rec := doRequest(t, srv, token, http.MethodGet, "/api/accounts", nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
	if rec := doRequest(t, srv, token, http.MethodGet, "/api/accounts", nil); rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
}

