package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Tomlord1122/todo-api/internal/domain"
	"github.com/Tomlord1122/todo-api/internal/repository"
)

// CategoryService defines the operations for managing categories.
type CategoryService interface {
	CreateCategory(ctx context.Context, owner string, req CreateCategoryRequest) (*CategoryResponse, error)
	ListCategories(ctx context.Context, owner string) ([]CategoryResponse, error)
	UpdateCategory(ctx context.Context, owner string, id uint, req UpdateCategoryRequest) (*CategoryResponse, error)

	// DeleteCategory removes the category and detaches its todos. It
	// returns the number of todos that were detached.
	DeleteCategory(ctx context.Context, owner string, id uint) (int64, error)
}

type categoryService struct {
	uow repository.UnitOfWork
}

func NewCategoryService(uow repository.UnitOfWork) CategoryService {
	return &categoryService{uow: uow}
}

func (s *categoryService) CreateCategory(ctx context.Context, owner string, req CreateCategoryRequest) (*CategoryResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	cat := &domain.Category{Name: strings.TrimSpace(req.Name), OwnerUID: owner}
	err := s.uow.Do(ctx, func(store repository.Store) error {
		return store.Categories().Create(ctx, cat)
	})
	if err != nil {
		return nil, wrapStoreError(err, "create category")
	}

	resp := newCategoryResponse(cat)
	return &resp, nil
}

func (s *categoryService) ListCategories(ctx context.Context, owner string) ([]CategoryResponse, error) {
	var cats []domain.Category
	err := s.uow.Do(ctx, func(store repository.Store) error {
		var err error
		cats, err = store.Categories().ListByOwner(ctx, owner)
		return err
	})
	if err != nil {
		return nil, wrapStoreError(err, "list categories")
	}

	responses := make([]CategoryResponse, 0, len(cats))
	for i := range cats {
		responses = append(responses, newCategoryResponse(&cats[i]))
	}
	return responses, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, owner string, id uint, req UpdateCategoryRequest) (*CategoryResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var cat *domain.Category
	err := s.uow.Do(ctx, func(store repository.Store) error {
		var err error
		if cat, err = findOwnedCategory(ctx, store, owner, id); err != nil {
			return err
		}
		if req.Name == nil {
			return nil
		}
		name := strings.TrimSpace(*req.Name)
		if name == cat.Name {
			return nil
		}
		cat.Name = name
		return store.Categories().Update(ctx, cat)
	})
	if err != nil {
		return nil, wrapStoreError(err, "update category")
	}

	resp := newCategoryResponse(cat)
	return &resp, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, owner string, id uint) (int64, error) {
	var moved int64
	err := s.uow.Do(ctx, func(store repository.Store) error {
		if _, err := findOwnedCategory(ctx, store, owner, id); err != nil {
			return err
		}
		var err error
		if moved, err = store.Todos().ClearCategory(ctx, id); err != nil {
			return err
		}
		return store.Categories().Delete(ctx, id)
	})
	if err != nil {
		return 0, wrapStoreError(err, "delete category")
	}
	return moved, nil
}

func findOwnedCategory(ctx context.Context, store repository.Store, owner string, id uint) (*domain.Category, error) {
	cat, err := store.Categories().FindByID(ctx, id)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, categoryNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	if !cat.OwnedBy(owner) {
		return nil, ErrForbidden
	}
	return cat, nil
}
