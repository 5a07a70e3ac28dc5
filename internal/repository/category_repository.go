package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Tomlord1122/todo-api/internal/domain"
)

type gormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GORM category repository
func NewGormCategoryRepository(db *gorm.DB) CategoryRepository {
	return &gormCategoryRepository{db: db}
}

func (r *gormCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	return translateError(r.db.WithContext(ctx).Create(category).Error)
}

func (r *gormCategoryRepository) FindByID(ctx context.Context, id uint) (*domain.Category, error) {
	var category domain.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &category, nil
}

func (r *gormCategoryRepository) ListByOwner(ctx context.Context, ownerUID string) ([]domain.Category, error) {
	categories := []domain.Category{}
	err := r.db.WithContext(ctx).
		Where("owner_uid = ?", ownerUID).
		Order("id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, translateError(err)
	}
	return categories, nil
}

func (r *gormCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	return translateError(r.db.WithContext(ctx).Save(category).Error)
}

// Delete removes the category row only. Callers detach its todos first,
// otherwise the foreign key rejects the delete.
func (r *gormCategoryRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Category{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
