package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/Sunay4826/AI-finance-platform/internal/services"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const principalKey contextKey = "principal"

// PrincipalFrom extracts the authenticated principal from the context.
// The second return is false when the request was not authenticated.
func PrincipalFrom(ctx context.Context) (services.Principal, bool) {
	p, ok := ctx.Value(principalKey).(services.Principal)
	return p, ok
}

// WithPrincipal returns a context carrying the principal. Exposed for
// handler tests.
func WithPrincipal(ctx context.Context, p services.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// Middleware validates the Authorization bearer token and attaches the
// principal to the request context. Requests without a valid token get
// a 401 before reaching any handler.
func Middleware(jwtManager *JWTManager, onReject func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				onReject(w, r, ErrMissingToken)
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				onReject(w, r, ErrInvalidToken)
				return
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				onReject(w, r, err)
				return
			}

			principal := services.Principal{
				ID:       claims.Subject,
				Name:     claims.Name,
				Email:    claims.Email,
				ImageURL: claims.ImageURL,
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}
