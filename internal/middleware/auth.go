// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/YaelStO/AlasLatinasNeftify/internal/auth"
	"github.com/YaelStO/AlasLatinasNeftify/pkg/logger"
)

type contextKey string

const identityKey contextKey = "identity"

// Verifier validates a bearer token and yields the caller's identity.
type Verifier interface {
	Verify(token string) (auth.Identity, error)
}

// AuthMiddleware enforces bearer-token authentication.
type AuthMiddleware struct {
	verifier Verifier
	log      *logger.Logger
}

// NewAuthMiddleware creates an authentication middleware around a verifier.
func NewAuthMiddleware(verifier Verifier, log *logger.Logger) *AuthMiddleware {
	if log == nil {
		log = logger.NewDefault("auth")
	}
	return &AuthMiddleware{verifier: verifier, log: log}
}

// Handler returns the middleware handler.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeJSONError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeJSONError(w, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		identity, err := m.verifier.Verify(parts[1])
		if err != nil {
			m.log.WithError(err).
				WithField("path", r.URL.Path).
				Warn("token verification failed")
			writeJSONError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFrom extracts the authenticated identity from the context.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

// UserIDFrom returns the authenticated user id, or "" when unauthenticated.
func UserIDFrom(ctx context.Context) string {
	id, _ := IdentityFrom(ctx)
	return id.UserID
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
