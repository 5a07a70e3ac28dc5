package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Tomlord1122/todo-api/internal/domain"
	"github.com/Tomlord1122/todo-api/internal/repository"
)

// TodoService defines the operations for managing todos. Every method that
// takes an owner uid acts on behalf of that verified user.
type TodoService interface {
	// CreateTodo stores a new todo owned by owner.
	CreateTodo(ctx context.Context, owner string, req CreateTodoRequest) (*TodoResponse, error)

	// GetTodoByID looks a todo up by id alone, without an ownership check.
	GetTodoByID(ctx context.Context, id uint) (*TodoResponse, error)

	// GetOwnedTodo is GetTodoByID restricted to the owner.
	GetOwnedTodo(ctx context.Context, owner string, id uint) (*TodoResponse, error)

	// ListTodos returns the owner's todos, newest first.
	ListTodos(ctx context.Context, owner string) ([]TodoResponse, error)

	// UpdateTodo applies a partial update to a todo the owner holds.
	UpdateTodo(ctx context.Context, owner string, id uint, req UpdateTodoRequest) (*TodoResponse, error)

	// DeleteTodo permanently removes a todo the owner holds.
	DeleteTodo(ctx context.Context, owner string, id uint) error
}

type todoService struct {
	uow repository.UnitOfWork
}

// NewTodoService creates a TodoService that runs each call in its own unit
// of work.
func NewTodoService(uow repository.UnitOfWork) TodoService {
	return &todoService{uow: uow}
}

func (s *todoService) CreateTodo(ctx context.Context, owner string, req CreateTodoRequest) (*TodoResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	todo := &domain.Todo{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		IsCompleted: req.IsCompleted,
		Priority:    req.Priority,
		CategoryID:  req.CategoryID,
		OwnerUID:    owner,
	}
	if todo.Priority == "" {
		todo.Priority = domain.DefaultPriority
	}
	if req.DueDate != nil {
		due := req.DueDate.Time
		todo.DueDate = &due
	}

	err := s.uow.Do(ctx, func(store repository.Store) error {
		if todo.CategoryID != nil {
			cat, err := ownedCategory(ctx, store, owner, *todo.CategoryID)
			if err != nil {
				return err
			}
			todo.Category = cat
		}
		return store.Todos().Create(ctx, todo)
	})
	if err != nil {
		return nil, wrapStoreError(err, "create todo")
	}

	resp := newTodoResponse(todo)
	return &resp, nil
}

func (s *todoService) GetTodoByID(ctx context.Context, id uint) (*TodoResponse, error) {
	var todo *domain.Todo
	err := s.uow.Do(ctx, func(store repository.Store) error {
		var err error
		todo, err = findTodo(ctx, store, id)
		return err
	})
	if err != nil {
		return nil, wrapStoreError(err, "get todo")
	}

	resp := newTodoResponse(todo)
	return &resp, nil
}

func (s *todoService) GetOwnedTodo(ctx context.Context, owner string, id uint) (*TodoResponse, error) {
	var todo *domain.Todo
	err := s.uow.Do(ctx, func(store repository.Store) error {
		var err error
		todo, err = findOwnedTodo(ctx, store, owner, id)
		return err
	})
	if err != nil {
		return nil, wrapStoreError(err, "get todo")
	}

	resp := newTodoResponse(todo)
	return &resp, nil
}

func (s *todoService) ListTodos(ctx context.Context, owner string) ([]TodoResponse, error) {
	var todos []domain.Todo
	err := s.uow.Do(ctx, func(store repository.Store) error {
		var err error
		todos, err = store.Todos().ListByOwner(ctx, owner)
		return err
	})
	if err != nil {
		return nil, wrapStoreError(err, "list todos")
	}

	responses := make([]TodoResponse, 0, len(todos))
	for i := range todos {
		responses = append(responses, newTodoResponse(&todos[i]))
	}
	return responses, nil
}

func (s *todoService) UpdateTodo(ctx context.Context, owner string, id uint, req UpdateTodoRequest) (*TodoResponse, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var todo *domain.Todo
	err := s.uow.Do(ctx, func(store repository.Store) error {
		var err error
		todo, err = findOwnedTodo(ctx, store, owner, id)
		if err != nil {
			return err
		}

		var cat *domain.Category
		if cid := req.CategoryID.Ptr(); cid != nil {
			if cat, err = ownedCategory(ctx, store, owner, *cid); err != nil {
				return err
			}
		}

		if !req.Apply(todo) {
			return nil
		}
		if req.CategoryID.Set {
			todo.Category = cat
		}
		return store.Todos().Update(ctx, todo)
	})
	if err != nil {
		return nil, wrapStoreError(err, "update todo")
	}

	resp := newTodoResponse(todo)
	return &resp, nil
}

func (s *todoService) DeleteTodo(ctx context.Context, owner string, id uint) error {
	err := s.uow.Do(ctx, func(store repository.Store) error {
		if _, err := findOwnedTodo(ctx, store, owner, id); err != nil {
			return err
		}
		return store.Todos().Delete(ctx, id)
	})
	return wrapStoreError(err, "delete todo")
}

func findTodo(ctx context.Context, store repository.Store, id uint) (*domain.Todo, error) {
	todo, err := store.Todos().FindByID(ctx, id)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, todoNotFound(id)
	}
	return todo, err
}

func findOwnedTodo(ctx context.Context, store repository.Store, owner string, id uint) (*domain.Todo, error) {
	todo, err := findTodo(ctx, store, id)
	if err != nil {
		return nil, err
	}
	if !todo.OwnedBy(owner) {
		return nil, ErrForbidden
	}
	return todo, nil
}

// ownedCategory resolves a category a todo is being attached to. Unknown
// and foreign categories are reported the same way so ids of other users
// are not disclosed.
func ownedCategory(ctx context.Context, store repository.Store, owner string, id uint) (*domain.Category, error) {
	cat, err := store.Categories().FindByID(ctx, id)
	if errors.Is(err, repository.ErrRecordNotFound) || (err == nil && !cat.OwnedBy(owner)) {
		return nil, newFieldError("category_id", "does not refer to one of your categories")
	}
	return cat, err
}

// wrapStoreError passes domain errors through and adds context to the
// rest. A foreign key failure can only come from a category deleted
// concurrently, so it is reported like an unknown category.
func wrapStoreError(err error, op string) error {
	if err == nil {
		return nil
	}
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrForbidden), errors.As(err, &verr):
		return err
	case errors.Is(err, repository.ErrForeignKey):
		return newFieldError("category_id", "does not refer to one of your categories")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
