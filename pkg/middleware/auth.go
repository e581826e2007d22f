package middleware

import (
	"net/http"
	"parkdeck/pkg/auth"
	"parkdeck/pkg/logger"
	"strings"
)

// BearerAuth validates the Authorization header and attaches the caller's
// principal to the request context.
func BearerAuth(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				rejectUnauthorized(w, log, r, "missing bearer token")
				return
			}

			principal, err := auth.ParseToken(token, secret)
			if err != nil {
				rejectUnauthorized(w, log, r, err.Error())
				return
			}

			ctx := auth.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func rejectUnauthorized(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	requestID := ""
	if rid := r.Context().Value(RequestIDKey); rid != nil {
		if id, ok := rid.(string); ok {
			requestID = id
		}
	}

	log.Warn("Unauthorized request",
		"request_id", requestID,
		"reason", reason,
		"path", r.URL.Path,
		"method", r.Method,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}
