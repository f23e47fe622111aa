package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"notekeep/internal/contract"
	"notekeep/internal/domain/entity"
	"notekeep/internal/storage"
	"notekeep/internal/utils"
	"notekeep/internal/utils/apierror"
)

type CategoryService interface {
	GetCategories(actor *entity.User) ([]*contract.CategoryResponse, apierror.ErrorResponse)
	GetCategoryStats(actor *entity.User) ([]*storage.CategoryStats, apierror.ErrorResponse)
	GetCategory(actor *entity.User, categoryID int64) (*contract.CategoryResponse, apierror.ErrorResponse)
	CreateCategory(actor *entity.User, req *contract.CreateCategoryRequest) (*contract.CategoryResponse, apierror.ErrorResponse)
	UpdateCategory(actor *entity.User, categoryID int64, req *contract.UpdateCategoryRequest) (*contract.CategoryResponse, apierror.ErrorResponse)
	DeleteCategory(actor *entity.User, categoryID int64) apierror.ErrorResponse
}

type DefaultCategoryRoute struct {
	CategoryService CategoryService
}

func NewCategoryDefault(categoryService CategoryService) *DefaultCategoryRoute {
	return &DefaultCategoryRoute{CategoryService: categoryService}
}

func (h *DefaultCategoryRoute) GetCategories(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	categories, apierr := h.CategoryService.GetCategories(user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *DefaultCategoryRoute) GetStats(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	stats, apierr := h.CategoryService.GetCategoryStats(user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *DefaultCategoryRoute) GetCategory(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.InvalidIDError)
	}

	category, apierr := h.CategoryService.GetCategory(user, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *DefaultCategoryRoute) CreateCategory(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	category, apierr := h.CategoryService.CreateCategory(user, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *DefaultCategoryRoute) UpdateCategory(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.InvalidIDError)
	}

	var req contract.UpdateCategoryRequest
	if err = c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	category, apierr := h.CategoryService.UpdateCategory(user, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *DefaultCategoryRoute) DeleteCategory(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.InvalidIDError)
	}

	if apierr := h.CategoryService.DeleteCategory(user, id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
