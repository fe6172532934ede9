package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Sunay4826/AI-finance-platform/internal/services"
)

func TestGenerateValidateRoundTrip(t *testing.T) {
	m := NewJWTManager("0123456789abcdef", time.Hour)

	token, err := m.Generate(services.Principal{ID: "ext-1", Name: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.Subject != "ext-1" || claims.Name != "Ada" || claims.Email != "ada@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestZeroDurationDefaultsToValidToken(t *testing.T) {
	m := NewJWTManager("0123456789abcdef", 0)

	token, err := m.Generate(services.Principal{ID: "ext-1"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, err := m.Validate(token); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestNegativeDurationGeneratesExpiredToken(t *testing.T) {
	m := NewJWTManager("0123456789abcdef", -time.Hour)

	token, err := m.Generate(services.Principal{ID: "ext-1"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}

func TestValidateRejections(t *testing.T) {
	m := NewJWTManager("0123456789abcdef", time.Hour)

	expired := NewJWTManager("0123456789abcdef", -time.Hour)
	expiredToken, err := expired.Generate(services.Principal{ID: "ext-1"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	otherSecret := NewJWTManager("fedcba9876543210", time.Hour)
	foreignToken, err := otherSecret.Generate(services.Principal{ID: "ext-1"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.jwt"},
		{"expired", expiredToken},
		{"wrong secret", foreignToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Validate(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestMiddlewareAttachesPrincipal(t *testing.T) {
	m := NewJWTManager("0123456789abcdef", time.Hour)
	token, err := m.Generate(services.Principal{ID: "ext-1", Name: "Ada"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var got services.Principal
	var gotOK bool
	handler := Middleware(m, func(w http.ResponseWriter, _ *http.Request, _ error) {
		w.WriteHeader(http.StatusUnauthorized)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, gotOK = PrincipalFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !gotOK || got.ID != "ext-1" || got.Name != "Ada" {
		t.Errorf("principal = %+v, ok = %v", got, gotOK)
	}
}

func TestMiddlewareRejectsBadHeaders(t *testing.T) {
	m := NewJWTManager("0123456789abcdef", time.Hour)
	handler := Middleware(m, func(w http.ResponseWriter, _ *http.Request, _ error) {
		w.WriteHeader(http.StatusUnauthorized)
	})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler reached without valid token")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"not bearer", "Basic abc"},
		{"bearer garbage", "Bearer nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}
