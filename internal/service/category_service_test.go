package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategory(t *testing.T) {
	_, cats, _ := newServices(t)
	ctx := context.Background()

	resp, err := cats.CreateCategory(ctx, "u1", CreateCategoryRequest{Name: "  Work "})
	require.NoError(t, err)
	assert.Equal(t, "Work", resp.Name)
	assert.Equal(t, "u1", resp.OwnerUID)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := cats.CreateCategory(ctx, "u1", CreateCategoryRequest{Name: name})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "name %q", name)
		assert.Equal(t, "name", verr.Fields[0].Field)
	}
}

func TestListCategoriesIsolation(t *testing.T) {
	_, cats, _ := newServices(t)
	ctx := context.Background()

	_, err := cats.CreateCategory(ctx, "u1", CreateCategoryRequest{Name: "Work"})
	require.NoError(t, err)
	_, err = cats.CreateCategory(ctx, "u2", CreateCategoryRequest{Name: "Home"})
	require.NoError(t, err)

	mine, err := cats.ListCategories(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Work", mine[0].Name)

	none, err := cats.ListCategories(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateCategory(t *testing.T) {
	_, cats, store := newServices(t)
	ctx := context.Background()

	created, err := cats.CreateCategory(ctx, "u1", CreateCategoryRequest{Name: "Work"})
	require.NoError(t, err)

	renamed := "Office"
	resp, err := cats.UpdateCategory(ctx, "u1", created.ID, UpdateCategoryRequest{Name: &renamed})
	require.NoError(t, err)
	assert.Equal(t, "Office", resp.Name)

	unchanged, err := cats.UpdateCategory(ctx, "u1", created.ID, UpdateCategoryRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Office", unchanged.Name)

	hijack := "Mine now"
	_, err = cats.UpdateCategory(ctx, "u2", created.ID, UpdateCategoryRequest{Name: &hijack})
	assert.ErrorIs(t, err, ErrForbidden)
	stored, _ := store.Category(created.ID)
	assert.Equal(t, "Office", stored.Name)

	_, err = cats.UpdateCategory(ctx, "u1", 9999, UpdateCategoryRequest{Name: &renamed})
	assert.ErrorIs(t, err, ErrNotFound)

	blank := " "
	_, err = cats.UpdateCategory(ctx, "u1", created.ID, UpdateCategoryRequest{Name: &blank})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDeleteCategoryDetachesTodos(t *testing.T) {
	todos, cats, store := newServices(t)
	ctx := context.Background()

	work, err := cats.CreateCategory(ctx, "u1", CreateCategoryRequest{Name: "Work"})
	require.NoError(t, err)
	home, err := cats.CreateCategory(ctx, "u1", CreateCategoryRequest{Name: "Home"})
	require.NoError(t, err)

	var attached []uint
	for _, title := range []string{"a", "b"} {
		todo, err := todos.CreateTodo(ctx, "u1", CreateTodoRequest{Title: title, CategoryID: &work.ID})
		require.NoError(t, err)
		attached = append(attached, todo.ID)
	}
	other, err := todos.CreateTodo(ctx, "u1", CreateTodoRequest{Title: "c", CategoryID: &home.ID})
	require.NoError(t, err)

	_, err = cats.DeleteCategory(ctx, "u2", work.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, ok := store.Category(work.ID)
	assert.True(t, ok, "a forbidden delete must not remove the category")

	_, err = cats.DeleteCategory(ctx, "u1", 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	moved, err := cats.DeleteCategory(ctx, "u1", work.ID)
	require.NoError(t, err)
	assert.EqualValues(t, len(attached), moved)

	for _, id := range attached {
		todo, ok := store.Todo(id)
		require.True(t, ok, "todos survive their category")
		assert.Nil(t, todo.CategoryID)
	}
	kept, _ := store.Todo(other.ID)
	require.NotNil(t, kept.CategoryID)
	assert.Equal(t, home.ID, *kept.CategoryID)

	moved, err = cats.DeleteCategory(ctx, "u1", home.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, moved)
}
