package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/marcusleong/cartrade-be/internal/auth"
	"github.com/marcusleong/cartrade-be/internal/http/respond"
)

type contextKey struct{}

var claimsKey contextKey

// TokenVerifier validates a raw bearer token and returns its claims.
type TokenVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

// AuthRejections counts failed authorization attempts by reason.
type AuthRejections interface {
	RecordAuthRejection(reason string)
}

// RequireAuth gates every protected route. The gate has exactly two
// outcomes: the request proceeds with claims attached to its context, or it
// is terminated here with a 401. A rejected request never reaches a handler.
func RequireAuth(verifier TokenVerifier, rejections AuthRejections) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				reject(w, r, rejections, "missing_header", "missing authorization header")
				return
			}

			scheme, token, found := strings.Cut(header, " ")
			// Scheme comparison is case-sensitive: "bearer" is not "Bearer".
			if !found || scheme != "Bearer" || token == "" {
				reject(w, r, rejections, "invalid_scheme", "invalid authorization scheme")
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					reject(w, r, rejections, "token_expired", "token expired")
					return
				}
				reject(w, r, rejections, "token_invalid", "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func reject(w http.ResponseWriter, r *http.Request, rejections AuthRejections, reason, message string) {
	if rejections != nil {
		rejections.RecordAuthRejection(reason)
	}
	slog.Warn("request rejected",
		slog.String("reason", reason),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	respond.Error(w, http.StatusUnauthorized, message)
}

// WithClaims returns a context carrying the authenticated identity.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the authenticated identity attached by RequireAuth.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}
