package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgForeignKeyViolation is the SQLSTATE for foreign_key_violation.
const pgForeignKeyViolation = "23503"

type gormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork returns a UnitOfWork that opens one database
// transaction per call to Do.
func NewGormUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(Store) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// gormStore binds the repositories to a single *gorm.DB, usually a
// transaction.
type gormStore struct {
	db *gorm.DB
}

func (s *gormStore) Todos() TodoRepository {
	return NewGormTodoRepository(s.db)
}

func (s *gormStore) Categories() CategoryRepository {
	return NewGormCategoryRepository(s.db)
}

// translateError maps driver and GORM errors onto the package sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return fmt.Errorf("%w: %s", ErrForeignKey, pgErr.ConstraintName)
	}
	return err
}
