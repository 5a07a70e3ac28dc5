package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-api/internal/domain"
	"github.com/Tomlord1122/todo-api/internal/repository/repotest"
)

func newServices(t *testing.T) (TodoService, CategoryService, *repotest.MemoryStore) {
	t.Helper()
	store := repotest.NewMemoryStore()
	return NewTodoService(store), NewCategoryService(store), store
}

func strPtr(s string) *string { return &s }

func TestCreateTodoForcesOwnerAndDefaults(t *testing.T) {
	todos, _, _ := newServices(t)
	ctx := context.Background()

	resp, err := todos.CreateTodo(ctx, "u1", CreateTodoRequest{Title: "  Buy milk  "})
	require.NoError(t, err)

	assert.NotZero(t, resp.ID)
	assert.Equal(t, "u1", resp.OwnerUID)
	assert.Equal(t, "Buy milk", resp.Title)
	assert.False(t, resp.IsCompleted)
	assert.Equal(t, domain.PriorityMedium, resp.Priority)
	assert.Nil(t, resp.Description)
	assert.Nil(t, resp.DueDate)
	assert.Nil(t, resp.CategoryID)
	assert.NotEmpty(t, resp.CreatedAt)
}

func TestCreateTodoValidation(t *testing.T) {
	todos, _, store := newServices(t)
	ctx := context.Background()

	cases := map[string]CreateTodoRequest{
		"empty title":      {Title: ""},
		"blank title":      {Title: "   "},
		"unknown priority": {Title: "x", Priority: "urgent"},
		"zero category":    {Title: "x", CategoryID: new(uint)},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := todos.CreateTodo(ctx, "u1", req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Fields)
		})
	}
	assert.Zero(t, store.TodoCount(), "nothing may be stored for invalid payloads")
}

func TestCreateTodoRejectsForeignCategory(t *testing.T) {
	todos, cats, store := newServices(t)
	ctx := context.Background()

	theirs, err := cats.CreateCategory(ctx, "u2", CreateCategoryRequest{Name: "Theirs"})
	require.NoError(t, err)

	_, err = todos.CreateTodo(ctx, "u1", CreateTodoRequest{Title: "x", CategoryID: &theirs.ID})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category_id", verr.Fields[0].Field)

	missing := uint(777)
	_, err = todos.CreateTodo(ctx, "u1", CreateTodoRequest{Title: "x", CategoryID: &missing})
	require.ErrorAs(t, err, &verr)

	assert.Zero(t, store.TodoCount())
}

func TestCreateTodoWithCategoryEmbedsIt(t *testing.T) {
	todos, cats, _ := newServices(t)
	ctx := context.Background()

	work, err := cats.CreateCategory(ctx, "u1", CreateCategoryRequest{Name: "Work"})
	require.NoError(t, err)

	due := DateTime{Time: time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)}
	created, err := todos.CreateTodo(ctx, "u1", CreateTodoRequest{
		Title:      "Report",
		Priority:   domain.PriorityHigh,
		DueDate:    &due,
		CategoryID: &work.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, created.Category)
	assert.Equal(t, "Work", created.Category.Name)
	require.NotNil(t, created.DueDate)
	assert.Equal(t, "2025-03-01T09:30:00Z", *created.DueDate)

	read, err := todos.GetTodoByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, read, "read-back must equal the create response")

	again, err := todos.GetTodoByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, read, again)
}

func TestListTodosIsolatedAndNewestFirst(t *testing.T) {
	todos, _, _ := newServices(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		_, err := todos.CreateTodo(ctx, "u1", CreateTodoRequest{Title: title})
		require.NoError(t, err)
	}
	_, err := todos.CreateTodo(ctx, "u2", CreateTodoRequest{Title: "theirs"})
	require.NoError(t, err)

	mine, err := todos.ListTodos(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{mine[0].Title, mine[1].Title, mine[2].Title})
	for _, todo := range mine {
		assert.Equal(t, "u1", todo.OwnerUID)
	}

	theirs, err := todos.ListTodos(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, theirs, 1)

	none, err := todos.ListTodos(ctx, "u3")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestGetTodo(t *testing.T) {
	todos, _, _ := newServices(t)
	ctx := context.Background()

	created, err := todos.CreateTodo(ctx, "u1", CreateTodoRequest{Title: "mine"})
	require.NoError(t, err)

	_, err = todos.GetTodoByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	// The unrestricted lookup does not look at the owner.
	got, err := todos.GetTodoByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Title)

	_, err = todos.GetOwnedTodo(ctx, "u2", created.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err = todos.GetOwnedTodo(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestUpdateTodoPartial(t *testing.T) {
	todos, cats, _ := newServices(t)
	ctx := context.Background()

	work, err := cats.CreateCategory(ctx, "u1", CreateCategoryRequest{Name: "Work"})
	require.NoError(t, err)
	due := DateTime{Time: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)}
	created, err := todos.CreateTodo(ctx, "u1", CreateTodoRequest{
		Title:       "Write tests",
		Description: strPtr("all of them"),
		Priority:    domain.PriorityHigh,
		DueDate:     &due,
		CategoryID:  &work.ID,
	})
	require.NoError(t, err)

	done := true
	updated, err := todos.UpdateTodo(ctx, "u1", created.ID, UpdateTodoRequest{IsCompleted: &done})
	require.NoError(t, err)

	assert.True(t, updated.IsCompleted)
	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.Priority, updated.Priority)
	assert.Equal(t, created.DueDate, updated.DueDate)
	assert.Equal(t, created.CategoryID, updated.CategoryID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, created.OwnerUID, updated.OwnerUID)

	cleared, err := todos.UpdateTodo(ctx, "u1", created.ID, UpdateTodoRequest{
		Description: Null[string](),
		DueDate:     Null[DateTime](),
		CategoryID:  Null[uint](),
	})
	require.NoError(t, err)
	assert.Nil(t, cleared.Description)
	assert.Nil(t, cleared.DueDate)
	assert.Nil(t, cleared.CategoryID)
	assert.Nil(t, cleared.Category)
	assert.True(t, cleared.IsCompleted)
}

func TestUpdateTodoAuthorization(t *testing.T) {
	todos, _, store := newServices(t)
	ctx := context.Background()

	created, err := todos.CreateTodo(ctx, "u2", CreateTodoRequest{Title: "theirs"})
	require.NoError(t, err)

	_, err = todos.UpdateTodo(ctx, "u1", created.ID, UpdateTodoRequest{Title: strPtr("hijacked")})
	assert.ErrorIs(t, err, ErrForbidden)

	stored, ok := store.Todo(created.ID)
	require.True(t, ok)
	assert.Equal(t, "theirs", stored.Title)

	_, err = todos.UpdateTodo(ctx, "u1", 9999, UpdateTodoRequest{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = todos.UpdateTodo(ctx, "u2", created.ID, UpdateTodoRequest{Title: strPtr("  ")})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDeleteTodo(t *testing.T) {
	todos, _, store := newServices(t)
	ctx := context.Background()

	created, err := todos.CreateTodo(ctx, "u2", CreateTodoRequest{Title: "theirs"})
	require.NoError(t, err)

	assert.ErrorIs(t, todos.DeleteTodo(ctx, "u1", created.ID), ErrForbidden)
	assert.Equal(t, 1, store.TodoCount())

	assert.ErrorIs(t, todos.DeleteTodo(ctx, "u2", 9999), ErrNotFound)

	require.NoError(t, todos.DeleteTodo(ctx, "u2", created.ID))
	assert.Zero(t, store.TodoCount())

	_, err = todos.GetTodoByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
