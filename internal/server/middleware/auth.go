package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rizquez/usersvc/internal/server/handlers"
	"github.com/rizquez/usersvc/internal/server/token"
	"github.com/rizquez/usersvc/pkg/api"
)

// Auth creates the bearer-token gate in front of protected handlers.
// A missing token is 401 "token not provided"; a token that fails
// verification is 403 "invalid token". On success the authenticated user id
// is stored in the request context for downstream handlers.
func Auth(logger *slog.Logger, tokens *token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractBearerToken(r)
			if tokenString == "" {
				logger.Warn("missing bearer token",
					"method", r.Method,
					"path", r.URL.Path)
				sendFail(logger, w, "token not provided", http.StatusUnauthorized)
				return
			}

			userID, err := tokens.Verify(tokenString)
			if err != nil {
				logger.Warn("token verification failed",
					"method", r.Method,
					"path", r.URL.Path,
					"error", err)
				sendFail(logger, w, "invalid token", http.StatusForbidden)
				return
			}

			ctx := handlers.WithUserID(r.Context(), userID)

			logger.Debug("request authenticated", "user_id", userID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken pulls the token out of "Authorization: Bearer <token>".
// Returns "" when the header is absent or has no token segment.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}

func sendFail(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	resp := api.Response{Status: api.StatusFail, Data: message}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("failed to encode error response", "error", err)
	}
}
