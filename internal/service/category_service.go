package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"notekeep/internal/contract"
	"notekeep/internal/domain/entity"
	"notekeep/internal/storage"
	"notekeep/internal/utils"
	"notekeep/internal/utils/apierror"
)

type CategoryService struct {
	Store    storage.Provider
	Validate *validator.Validate
}

func NewCategoryService(store storage.Provider, validate *validator.Validate) *CategoryService {
	return &CategoryService{
		Store:    store,
		Validate: validate,
	}
}

func (c *CategoryService) GetCategories(actor *entity.User) ([]*contract.CategoryResponse, apierror.ErrorResponse) {
	categories, err := c.Store.Categories().FindByUser(actor.ID)
	if err != nil {
		log.Errorf("failed to fetch categories: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.CategoryResponse, len(categories))
	for i, category := range categories {
		resp[i] = toCategoryResponse(category)
	}
	return resp, nil
}

func (c *CategoryService) GetCategoryStats(actor *entity.User) ([]*storage.CategoryStats, apierror.ErrorResponse) {
	stats, err := c.Store.Categories().StatsByUser(actor.ID)
	if err != nil {
		log.Errorf("failed to fetch category stats: %v", err)
		return nil, apierror.InternalServerError
	}
	return stats, nil
}

func (c *CategoryService) GetCategory(actor *entity.User, categoryID int64) (*contract.CategoryResponse, apierror.ErrorResponse) {
	category, err := c.Store.Categories().FindByID(categoryID, actor.ID)
	if err != nil {
		log.Errorf("failed to fetch category: %v", err)
		return nil, apierror.InternalServerError
	}

	if category == nil {
		return nil, apierror.NotFoundError
	}
	return toCategoryResponse(category), nil
}

func (c *CategoryService) CreateCategory(actor *entity.User, req *contract.CreateCategoryRequest) (*contract.CategoryResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := c.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	color := req.Color
	if color == "" {
		color = entity.DefaultCategoryColor
	}

	now := utils.NowUTC()
	category := &entity.Category{
		Name:        req.Name,
		Color:       color,
		Description: req.Description,
		UserID:      actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := c.Store.Categories().Create(category); err != nil {
		log.Errorf("failed to create category: %v", err)
		return nil, apierror.InternalServerError
	}
	return toCategoryResponse(category), nil
}

func (c *CategoryService) UpdateCategory(actor *entity.User, categoryID int64, req *contract.UpdateCategoryRequest) (*contract.CategoryResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := c.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	category, err := c.Store.Categories().Update(categoryID, actor.ID, storage.CategoryChanges{
		Name:        req.Name,
		Color:       req.Color,
		Description: req.Description,
	})
	if err != nil {
		return nil, mapStorageError(err, "failed to update category")
	}
	return toCategoryResponse(category), nil
}

// DeleteCategory removes the category; referencing notes are detached, not
// deleted.
func (c *CategoryService) DeleteCategory(actor *entity.User, categoryID int64) apierror.ErrorResponse {
	if err := c.Store.Categories().Delete(categoryID, actor.ID); err != nil {
		return mapStorageError(err, "failed to delete category")
	}
	return nil
}

func toCategoryResponse(category *entity.Category) *contract.CategoryResponse {
	return &contract.CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Color:       category.Color,
		Description: category.Description,
		UserID:      category.UserID,
		CreatedAt:   utils.FormatEpoch(category.CreatedAt),
		UpdatedAt:   utils.FormatEpoch(category.UpdatedAt),
	}
}

// mapStorageError translates the tagged storage sentinels into API errors,
// logging everything else as an internal failure.
func mapStorageError(err error, logMsg string) apierror.ErrorResponse {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apierror.NotFoundError
	case errors.Is(err, storage.ErrAccessDenied):
		return apierror.AccessDeniedError
	default:
		log.Errorf("%s: %v", logMsg, err)
		return apierror.InternalServerError
	}
}
