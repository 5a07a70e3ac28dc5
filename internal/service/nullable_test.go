package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-api/internal/domain"
)

func TestUpdateTodoRequestDecoding(t *testing.T) {
	var req UpdateTodoRequest
	require.NoError(t, json.Unmarshal([]byte(`{"is_completed": true, "category_id": null, "description": "d"}`), &req))

	require.NotNil(t, req.IsCompleted)
	assert.True(t, *req.IsCompleted)
	assert.Nil(t, req.Title)

	assert.True(t, req.CategoryID.Set)
	assert.True(t, req.CategoryID.Null)
	assert.Nil(t, req.CategoryID.Ptr())

	assert.True(t, req.Description.Set)
	require.NotNil(t, req.Description.Ptr())
	assert.Equal(t, "d", *req.Description.Ptr())

	assert.False(t, req.DueDate.Set, "absent keys stay unset")
}

func TestDateTimeLayouts(t *testing.T) {
	want := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	for _, in := range []string{`"2025-06-01T14:30:00Z"`, `"2025-06-01T16:30:00+02:00"`, `"2025-06-01T14:30:00"`, `"2025-06-01T14:30"`} {
		var d DateTime
		require.NoError(t, json.Unmarshal([]byte(in), &d), in)
		assert.True(t, want.Equal(d.Time), in)
	}

	var d DateTime
	require.NoError(t, json.Unmarshal([]byte(`"2025-06-01"`), &d))
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), d.Time)

	assert.Error(t, json.Unmarshal([]byte(`"tomorrow"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`12`), &d))
}

func TestApplyOnlyTouchesSubmittedFields(t *testing.T) {
	cat := uint(3)
	due := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	desc := "keep"
	todo := &domain.Todo{
		Title:       "title",
		Description: &desc,
		Priority:    domain.PriorityLow,
		DueDate:     &due,
		CategoryID:  &cat,
	}

	assert.False(t, UpdateTodoRequest{}.Apply(todo))

	high := domain.PriorityHigh
	changed := UpdateTodoRequest{Priority: &high}.Apply(todo)
	assert.True(t, changed)
	assert.Equal(t, domain.PriorityHigh, todo.Priority)
	assert.Equal(t, "title", todo.Title)
	assert.Equal(t, "keep", *todo.Description)
	assert.Equal(t, due, *todo.DueDate)
	assert.Equal(t, cat, *todo.CategoryID)

	assert.False(t, UpdateTodoRequest{CategoryID: Some(cat)}.Apply(todo), "same value is not a change")

	assert.True(t, UpdateTodoRequest{DueDate: Null[DateTime]()}.Apply(todo))
	assert.Nil(t, todo.DueDate)
}
