package contract

type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
	UserID      int64  `json:"userId"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=50"`
	Color       string `json:"color" validate:"omitempty,hexrgb"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,notblank,max=50"`
	Color       *string `json:"color" validate:"omitempty,hexrgb"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}
