package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"notekeep/internal/contract"
	"notekeep/internal/domain/entity"
	"notekeep/internal/service"
	"notekeep/internal/storage"
	"notekeep/internal/utils"
	"notekeep/internal/utils/apierror"
)

type AdminService interface {
	Dashboard() (*storage.SystemStats, apierror.ErrorResponse)
	GetUsers() ([]*contract.UserResponse, apierror.ErrorResponse)
	GetUserDetails(userID int64) (*contract.UserDetailsResponse, apierror.ErrorResponse)
	UpdateUserStatus(actor *entity.User, targetID int64, req *contract.UpdateUserStatusRequest) (*contract.UserResponse, apierror.ErrorResponse)
	DeleteUser(actor *entity.User, targetID int64) apierror.ErrorResponse
	Health() *service.HealthResponse
}

type DefaultAdminRoute struct {
	AdminService AdminService
}

func NewAdminDefault(adminService AdminService) *DefaultAdminRoute {
	return &DefaultAdminRoute{AdminService: adminService}
}

func (a *DefaultAdminRoute) Dashboard(c echo.Context) error {
	stats, apierr := a.AdminService.Dashboard()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, stats)
}

func (a *DefaultAdminRoute) GetUsers(c echo.Context) error {
	users, apierr := a.AdminService.GetUsers()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, users)
}

func (a *DefaultAdminRoute) GetUserDetails(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.InvalidIDError)
	}

	details, apierr := a.AdminService.GetUserDetails(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, details)
}

func (a *DefaultAdminRoute) UpdateUser(c echo.Context) error {
	actor, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.InvalidIDError)
	}

	var req contract.UpdateUserStatusRequest
	if err = c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	user, apierr := a.AdminService.UpdateUserStatus(actor, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, user)
}

func (a *DefaultAdminRoute) DeleteUser(c echo.Context) error {
	actor, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.InvalidIDError)
	}

	if apierr := a.AdminService.DeleteUser(actor, id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *DefaultAdminRoute) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, a.AdminService.Health())
}
