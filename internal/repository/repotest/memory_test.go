package repotest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-api/internal/domain"
	"github.com/Tomlord1122/todo-api/internal/repository"
)

func TestMemoryStoreRollsBack(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.Do(ctx, func(s repository.Store) error {
		require.NoError(t, s.Todos().Create(ctx, &domain.Todo{Title: "a", OwnerUID: "u1"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, store.TodoCount())
}

func TestMemoryStoreForeignKeys(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	missing := uint(42)
	err := store.Do(ctx, func(s repository.Store) error {
		return s.Todos().Create(ctx, &domain.Todo{Title: "a", OwnerUID: "u1", CategoryID: &missing})
	})
	assert.ErrorIs(t, err, repository.ErrForeignKey)

	var cat domain.Category
	require.NoError(t, store.Do(ctx, func(s repository.Store) error {
		cat = domain.Category{Name: "Work", OwnerUID: "u1"}
		require.NoError(t, s.Categories().Create(ctx, &cat))
		return s.Todos().Create(ctx, &domain.Todo{Title: "a", OwnerUID: "u1", CategoryID: &cat.ID})
	}))

	err = store.Do(ctx, func(s repository.Store) error {
		return s.Categories().Delete(ctx, cat.ID)
	})
	assert.ErrorIs(t, err, repository.ErrForeignKey)

	require.NoError(t, store.Do(ctx, func(s repository.Store) error {
		n, err := s.Todos().ClearCategory(ctx, cat.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
		return s.Categories().Delete(ctx, cat.ID)
	}))
}

func TestMemoryStoreListOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Do(ctx, func(s repository.Store) error {
		for _, title := range []string{"one", "two", "three"} {
			require.NoError(t, s.Todos().Create(ctx, &domain.Todo{Title: title, OwnerUID: "u1"}))
		}
		return s.Todos().Create(ctx, &domain.Todo{Title: "theirs", OwnerUID: "u2"})
	}))

	require.NoError(t, store.Do(ctx, func(s repository.Store) error {
		todos, err := s.Todos().ListByOwner(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, todos, 3)
		assert.Equal(t, "three", todos[0].Title)
		assert.Equal(t, "one", todos[2].Title)
		return nil
	}))
}
