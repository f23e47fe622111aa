package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notekeep/internal/auth"
	"notekeep/internal/domain/entity"
)

type stubUserFinder struct {
	users map[int64]*entity.User
}

func (s *stubUserFinder) FindByID(id int64) (*entity.User, error) {
	return s.users[id], nil
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func runRequest(t *testing.T, handler echo.HandlerFunc, token string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()

	require.NoError(t, handler(e.NewContext(req, rec)))
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	finder := &stubUserFinder{users: map[int64]*entity.User{
		1: {ID: 1, Username: "alice", IsActive: true},
		2: {ID: 2, Username: "ghost", IsActive: false},
	}}
	mw := NewAuthMiddleware(&AuthMiddlewareConfig{Tokens: tokens, Users: finder})

	t.Run("ValidToken", func(t *testing.T) {
		token, err := tokens.Sign(1, "alice")
		require.NoError(t, err)

		var seen *entity.User
		handler := mw(func(c echo.Context) error {
			seen = c.Get("user").(*entity.User)
			return okHandler(c)
		})

		rec := runRequest(t, handler, token)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, int64(1), seen.ID)
	})

	t.Run("MissingToken", func(t *testing.T) {
		rec := runRequest(t, mw(okHandler), "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		rec := runRequest(t, mw(okHandler), "nonsense")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("TokenForDeletedUser", func(t *testing.T) {
		token, err := tokens.Sign(999, "nobody")
		require.NoError(t, err)

		rec := runRequest(t, mw(okHandler), token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("DeactivatedUser", func(t *testing.T) {
		token, err := tokens.Sign(2, "ghost")
		require.NoError(t, err)

		rec := runRequest(t, mw(okHandler), token)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Run("Admin", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("user", &entity.User{ID: 1, IsAdmin: true, IsActive: true})

		require.NoError(t, RequireAdmin(okHandler)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("RegularUser", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("user", &entity.User{ID: 1, IsActive: true})

		require.NoError(t, RequireAdmin(okHandler)(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("NoUserInContext", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, RequireAdmin(okHandler)(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
