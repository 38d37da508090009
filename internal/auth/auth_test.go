package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankrec/bankrec/internal/apperr"
	"github.com/bankrec/bankrec/internal/auth"
	"github.com/bankrec/bankrec/internal/user"
)

var secret = []byte("test-secret")

type stubUserStore struct {
	users map[uuid.UUID]*user.User
}

func (s *stubUserStore) GetUser(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}

	return u, nil
}

func signToken(t *testing.T, subject string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	signed, err := token.SignedString(secret)
	require.NoError(t, err)

	return signed
}

func TestMiddleware(t *testing.T) {
	u := &user.User{ID: uuid.New(), Name: "Jane", Role: user.RoleEditor}
	store := &stubUserStore{users: map[uuid.UUID]*user.User{u.ID: u}}

	handler := auth.Middleware(secret, store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := auth.UserFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, user.RoleEditor, got.Role)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("ValidToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, u.ID.String()))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("MissingToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject: u.ID.String(),
		})
		signed, err := token.SignedString([]byte("other-secret"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signed)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, uuid.NewString()))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRoles(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	withUser := func(req *http.Request, u *user.User) *http.Request {
		store := &stubUserStore{users: map[uuid.UUID]*user.User{u.ID: u}}
		req.Header.Set("Authorization", "Bearer "+signToken(t, u.ID.String()))

		rec := httptest.NewRecorder()
		var out *http.Request
		auth.Middleware(secret, store)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			out = r
		})).ServeHTTP(rec, req)
		require.NotNil(t, out)

		return out
	}

	t.Run("AllowedRole", func(t *testing.T) {
		u := &user.User{ID: uuid.New(), Role: user.RoleAdmin}
		req := withUser(httptest.NewRequest(http.MethodDelete, "/", nil), u)

		rec := httptest.NewRecorder()
		auth.RequireRoles(user.RoleAdmin, user.RoleImporter)(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("ForbiddenRole", func(t *testing.T) {
		u := &user.User{ID: uuid.New(), Role: user.RoleViewer}
		req := withUser(httptest.NewRequest(http.MethodDelete, "/", nil), u)

		rec := httptest.NewRecorder()
		auth.RequireRoles(user.RoleAdmin)(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		auth.RequireRoles(user.RoleAdmin)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
