package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	jwttoken "formdesk/internal/jwt_token"
	"formdesk/pkg/requestcontext"
)

// TokenValidator validates bearer tokens into operator claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwttoken.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// operator account in the request context for audit attribution.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				logger.WarnContext(r.Context(), "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(r.Context()),
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := requestcontext.WithAccount(r.Context(), claims.Account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
