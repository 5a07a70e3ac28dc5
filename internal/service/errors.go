package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound means no entity has the requested id.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the entity exists but belongs to someone else.
	ErrForbidden = errors.New("not authorized to perform this action")
)

// FieldError describes one rejected field of a request payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newFieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func todoNotFound(id uint) error {
	return fmt.Errorf("todo with ID %d %w", id, ErrNotFound)
}

func categoryNotFound(id uint) error {
	return fmt.Errorf("category with ID %d %w", id, ErrNotFound)
}
