package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"notekeep/internal/auth"
	"notekeep/internal/domain/entity"
	"notekeep/internal/utils/apierror"
)

type UserFinder interface {
	FindByID(id int64) (*entity.User, error)
}

type AuthMiddlewareConfig struct {
	Tokens *auth.TokenManager
	Users  UserFinder
}

// NewAuthMiddleware verifies the bearer token and loads the authenticated
// user into the request context under "user".
func NewAuthMiddleware(cfg *AuthMiddlewareConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := cfg.Tokens.Verify(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthError)
			}

			user, err := cfg.Users.FindByID(claims.UserID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, apierror.InternalServerError)
			}

			if user == nil {
				// User deleted in storage but still holding a valid token.
				return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthError)
			}

			if !user.IsActive {
				return c.JSON(http.StatusForbidden, apierror.AccountDisabledError)
			}

			c.Set("user", user)
			return next(c)
		}
	}
}

// RequireAdmin gates admin-only routes. It must run after NewAuthMiddleware.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := c.Get("user").(*entity.User)
		if !ok || !user.IsAdmin {
			return c.JSON(http.StatusForbidden, apierror.AdminRequiredError)
		}
		return next(c)
	}
}
