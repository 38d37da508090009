// Package auth resolves the acting user from a bearer token. Token issuance
// and session management live outside this service; only verification and
// role gating happen here.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bankrec/bankrec/internal/user"
)

type contextKey struct{}

// UserFromContext returns the authenticated user placed by Middleware.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(contextKey{}).(*user.User)
	return u, ok
}

// UserStore loads the acting user; the token only proves identity, the role
// always comes from the current user row.
type UserStore interface {
	GetUser(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Middleware verifies the Authorization bearer token (HMAC-signed, subject =
// user id) and loads the user into the request context.
func Middleware(secret []byte, users UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				writeUnauthorized(w, "authorization token not provided")
				return
			}

			token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}

				return secret, nil
			})
			if err != nil || !token.Valid {
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			sub, err := token.Claims.GetSubject()
			if err != nil {
				writeUnauthorized(w, "invalid token claims")
				return
			}

			id, err := uuid.Parse(sub)
			if err != nil {
				writeUnauthorized(w, "invalid subject in token")
				return
			}

			u, err := users.GetUser(r.Context(), id)
			if err != nil {
				writeUnauthorized(w, "unknown user")
				return
			}

			ctx := context.WithValue(r.Context(), contextKey{}, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles rejects requests whose user holds none of the given roles.
func RequireRoles(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFromContext(r.Context())
			if !ok {
				writeUnauthorized(w, "not authenticated")
				return
			}

			for _, role := range roles {
				if u.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)

			if err := json.NewEncoder(w).Encode(map[string]string{"message": "forbidden"}); err != nil {
				slog.Error("failed to encode response", "error", err)
			}
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return parts[1]
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	if err := json.NewEncoder(w).Encode(map[string]string{"message": msg}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
