package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Tomlord1122/todo-api/internal/domain"
)

// gormTodoRepository implements TodoRepository using GORM
type gormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a new GORM todo repository
func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

func (r *gormTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	// Associations are never written through a todo; the category must
	// already exist.
	result := r.db.WithContext(ctx).Omit(clause.Associations).Create(todo)
	return translateError(result.Error)
}

func (r *gormTodoRepository) FindByID(ctx context.Context, id uint) (*domain.Todo, error) {
	var todo domain.Todo
	result := r.db.WithContext(ctx).Preload("Category").First(&todo, id)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	return &todo, nil
}

func (r *gormTodoRepository) ListByOwner(ctx context.Context, ownerUID string) ([]domain.Todo, error) {
	todos := []domain.Todo{}
	result := r.db.WithContext(ctx).
		Preload("Category").
		Where("owner_uid = ?", ownerUID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&todos)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	return todos, nil
}

func (r *gormTodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	result := r.db.WithContext(ctx).Omit(clause.Associations).Save(todo)
	return translateError(result.Error)
}

// Delete permanently removes a todo; there is no soft delete.
func (r *gormTodoRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Todo{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *gormTodoRepository) ClearCategory(ctx context.Context, categoryID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Todo{}).
		Where("category_id = ?", categoryID).
		Update("category_id", nil)
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	return result.RowsAffected, nil
}
