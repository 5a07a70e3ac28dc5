package service

import (
	"strings"
	"time"

	"github.com/Tomlord1122/todo-api/internal/domain"
)

// CreateTodoRequest holds the client-supplied fields of a new todo. The id,
// owner and creation time are assigned by the server.
type CreateTodoRequest struct {
	Title       string          `json:"title" validate:"required,notblank"`
	Description *string         `json:"description"`
	IsCompleted bool            `json:"is_completed"`
	Priority    domain.Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *DateTime       `json:"due_date"`
	CategoryID  *uint           `json:"category_id" validate:"omitnil,min=1"`
}

// UpdateTodoRequest is a partial update. Omitted fields are left alone.
// Title, IsCompleted and Priority cannot be null, so null is treated as
// omitted for them; the Nullable fields are cleared by an explicit null.
type UpdateTodoRequest struct {
	Title       *string            `json:"title" validate:"omitnil,notblank"`
	Description Nullable[string]   `json:"description"`
	IsCompleted *bool              `json:"is_completed"`
	Priority    *domain.Priority   `json:"priority" validate:"omitnil,oneof=low medium high"`
	DueDate     Nullable[DateTime] `json:"due_date"`
	CategoryID  Nullable[uint]     `json:"category_id"`
}

func (req UpdateTodoRequest) validate() error {
	if err := validateStruct(req); err != nil {
		return err
	}
	if req.CategoryID.Set && !req.CategoryID.Null && req.CategoryID.Value == 0 {
		return newFieldError("category_id", "must be at least 1")
	}
	return nil
}

// Apply merges the patch into todo and reports whether anything changed.
// It does not touch todo.Category; the caller resolves that.
func (req UpdateTodoRequest) Apply(todo *domain.Todo) bool {
	changed := false

	if req.Title != nil {
		if title := strings.TrimSpace(*req.Title); title != todo.Title {
			todo.Title = title
			changed = true
		}
	}

	if req.Description.Set && !equalPtr(req.Description.Ptr(), todo.Description) {
		todo.Description = req.Description.Ptr()
		changed = true
	}

	if req.IsCompleted != nil && *req.IsCompleted != todo.IsCompleted {
		todo.IsCompleted = *req.IsCompleted
		changed = true
	}

	if req.Priority != nil && *req.Priority != todo.Priority {
		todo.Priority = *req.Priority
		changed = true
	}

	if req.DueDate.Set {
		var due *time.Time
		if d := req.DueDate.Ptr(); d != nil {
			due = &d.Time
		}
		if !equalTime(due, todo.DueDate) {
			todo.DueDate = due
			changed = true
		}
	}

	if req.CategoryID.Set && !equalPtr(req.CategoryID.Ptr(), todo.CategoryID) {
		todo.CategoryID = req.CategoryID.Ptr()
		changed = true
	}

	return changed
}

// TodoResponse is the read projection of a todo.
type TodoResponse struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	IsCompleted bool              `json:"is_completed"`
	Priority    domain.Priority   `json:"priority"`
	DueDate     *string           `json:"due_date"`
	CategoryID  *uint             `json:"category_id"`
	OwnerUID    string            `json:"owner_uid"`
	CreatedAt   string            `json:"created_at"`
	Category    *CategoryResponse `json:"category,omitempty"`
}

func newTodoResponse(todo *domain.Todo) TodoResponse {
	resp := TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		IsCompleted: todo.IsCompleted,
		Priority:    todo.Priority,
		CategoryID:  todo.CategoryID,
		OwnerUID:    todo.OwnerUID,
		CreatedAt:   formatTime(todo.CreatedAt),
	}
	if todo.DueDate != nil {
		due := formatTime(*todo.DueDate)
		resp.DueDate = &due
	}
	if todo.Category != nil {
		cat := newCategoryResponse(todo.Category)
		resp.Category = &cat
	}
	return resp
}

// formatTime renders timestamps in UTC at second precision so a value
// reads back identically after a round trip through the database.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
