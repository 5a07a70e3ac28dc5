package repository

import (
	"context"
	"errors"

	"github.com/Tomlord1122/todo-api/internal/domain"
)

var (
	// ErrRecordNotFound is returned by lookups that match no row.
	ErrRecordNotFound = errors.New("record not found")
	// ErrForeignKey is returned when a write references a missing row.
	ErrForeignKey = errors.New("foreign key violation")
)

// TodoRepository defines the data operations on todos.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	FindByID(ctx context.Context, id uint) (*domain.Todo, error)
	// ListByOwner returns the owner's todos, newest first.
	ListByOwner(ctx context.Context, ownerUID string) ([]domain.Todo, error)
	Update(ctx context.Context, todo *domain.Todo) error
	Delete(ctx context.Context, id uint) error
	// ClearCategory detaches every todo from the category and returns how
	// many were changed.
	ClearCategory(ctx context.Context, categoryID uint) (int64, error)
}

// CategoryRepository defines the data operations on categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id uint) (*domain.Category, error)
	ListByOwner(ctx context.Context, ownerUID string) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id uint) error
}

// Store exposes the repositories of one unit of work.
type Store interface {
	Todos() TodoRepository
	Categories() CategoryRepository
}

// UnitOfWork runs a function against a Store inside one transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(Store) error) error
}
