package utils

import (
	"github.com/labstack/echo/v4"

	"notekeep/internal/domain/entity"
	"notekeep/internal/utils/apierror"
)

// GetUserFromContext returns the user loaded by the auth middleware.
func GetUserFromContext(c echo.Context) (*entity.User, apierror.ErrorResponse) {
	user, ok := c.Get("user").(*entity.User)
	if !ok || user == nil {
		return nil, apierror.InvalidAuthError
	}
	return user, nil
}
