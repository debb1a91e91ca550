// Package middleware provides HTTP middleware for the shopkeep API.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/marmos91/shopkeep/internal/logger"
	"github.com/marmos91/shopkeep/pkg/api/auth"
	"github.com/marmos91/shopkeep/pkg/api/handlers"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// GetClaimsFromContext retrieves JWT claims from the request context.
// Returns nil outside routes guarded by JWTAuth.
func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

// extractBearerToken extracts the token from a Bearer Authorization header.
func extractBearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

// FailureWriter renders a request rejected with status 401 or 403.
type FailureWriter func(w http.ResponseWriter, status int, detail string)

// ProblemFailure renders rejections as RFC 7807 problems.
func ProblemFailure(w http.ResponseWriter, status int, detail string) {
	if status == http.StatusForbidden {
		handlers.Forbidden(w, detail)
		return
	}
	handlers.Unauthorized(w, detail)
}

// JWTAuth validates the Bearer token and stores its claims in the request
// context. Missing or invalid tokens get 401, rendered by fail (ProblemFailure
// when nil).
func JWTAuth(jwtService *auth.JWTService, fail FailureWriter) func(http.Handler) http.Handler {
	if fail == nil {
		fail = ProblemFailure
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := extractBearerToken(r)
			if !ok {
				fail(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			claims, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				logger.DebugCtx(r.Context(), "Rejected bearer token", logger.Err(err))
				fail(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin blocks tokens without the admin role. Must be used after
// JWTAuth.
func RequireAdmin(fail FailureWriter) func(http.Handler) http.Handler {
	if fail == nil {
		fail = ProblemFailure
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaimsFromContext(r.Context())
			if claims == nil {
				fail(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			if !claims.IsAdmin() {
				fail(w, http.StatusForbidden, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
