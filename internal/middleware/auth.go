package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/services"
)

type contextKey string

const UserContextKey contextKey = "user"

// TokenAuthenticator resolves bearer tokens to users.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (models.User, error)
}

// RequireToken rejects requests without a valid bearer token.
func RequireToken(authenticator TokenAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authenticator.Authenticate(r.Context(), BearerToken(r))
			if err != nil {
				if !errors.Is(err, services.ErrUnauthorized) {
					slog.Error("authenticating request", "error", err)
				}
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken accepts both "Bearer <token>" and a bare token.
func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if token, found := strings.CutPrefix(header, "Bearer "); found {
		return strings.TrimSpace(token)
	}
	return header
}

func GetUser(ctx context.Context) models.User {
	user, _ := ctx.Value(UserContextKey).(models.User)
	return user
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"code":    http.StatusUnauthorized,
		"message": "The request requires valid record authorization token.",
		"data":    map[string]any{},
	})
}
