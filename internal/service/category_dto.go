package service

import "github.com/Tomlord1122/todo-api/internal/domain"

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,notblank"`
}

type UpdateCategoryRequest struct {
	Name *string `json:"name" validate:"omitnil,notblank"`
}

// CategoryResponse is the read projection of a category.
type CategoryResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	OwnerUID string `json:"owner_uid"`
}

func newCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, OwnerUID: c.OwnerUID}
}
