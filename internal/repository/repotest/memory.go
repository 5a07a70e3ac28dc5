// Package repotest provides an in-memory repository.UnitOfWork for tests of
// the layers above the database.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Tomlord1122/todo-api/internal/domain"
	"github.com/Tomlord1122/todo-api/internal/repository"
)

// MemoryStore keeps todos and categories in maps. Units of work are
// serialized and roll back by restoring a snapshot.
type MemoryStore struct {
	mu sync.Mutex

	todos      map[uint]domain.Todo
	categories map[uint]domain.Category
	nextTodo   uint
	nextCat    uint

	// Now stamps CreatedAt on new todos.
	Now func() time.Time
}

// NewMemoryStore returns an empty store whose clock advances one second per
// created todo, so ordering by creation time is deterministic.
func NewMemoryStore() *MemoryStore {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var tick int
	return &MemoryStore{
		todos:      make(map[uint]domain.Todo),
		categories: make(map[uint]domain.Category),
		Now: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		},
	}
}

var _ repository.UnitOfWork = (*MemoryStore)(nil)

func (m *MemoryStore) Do(ctx context.Context, fn func(repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	todos := make(map[uint]domain.Todo, len(m.todos))
	for k, v := range m.todos {
		todos[k] = v
	}
	categories := make(map[uint]domain.Category, len(m.categories))
	for k, v := range m.categories {
		categories[k] = v
	}
	nextTodo, nextCat := m.nextTodo, m.nextCat

	if err := fn(memStore{m}); err != nil {
		m.todos, m.categories = todos, categories
		m.nextTodo, m.nextCat = nextTodo, nextCat
		return err
	}
	return nil
}

// TodoCount returns the number of stored todos.
func (m *MemoryStore) TodoCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.todos)
}

// Todo returns a stored todo without going through a unit of work.
func (m *MemoryStore) Todo(id uint) (domain.Todo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.todos[id]
	return t, ok
}

// Category returns a stored category without going through a unit of work.
func (m *MemoryStore) Category(id uint) (domain.Category, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	return c, ok
}

type memStore struct {
	m *MemoryStore
}

func (s memStore) Todos() repository.TodoRepository {
	return memTodos{s.m}
}

func (s memStore) Categories() repository.CategoryRepository {
	return memCategories{s.m}
}

type memTodos struct {
	m *MemoryStore
}

func (r memTodos) checkCategory(id *uint) error {
	if id == nil {
		return nil
	}
	if _, ok := r.m.categories[*id]; !ok {
		return fmt.Errorf("%w: fk_todos_category", repository.ErrForeignKey)
	}
	return nil
}

// withCategory mimics Preload("Category").
func (r memTodos) withCategory(t domain.Todo) domain.Todo {
	t.Category = nil
	if t.CategoryID != nil {
		if c, ok := r.m.categories[*t.CategoryID]; ok {
			t.Category = &c
		}
	}
	return t
}

func (r memTodos) Create(_ context.Context, todo *domain.Todo) error {
	if err := r.checkCategory(todo.CategoryID); err != nil {
		return err
	}
	r.m.nextTodo++
	todo.ID = r.m.nextTodo
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = r.m.Now()
	}
	stored := *todo
	stored.Category = nil
	r.m.todos[todo.ID] = stored
	return nil
}

func (r memTodos) FindByID(_ context.Context, id uint) (*domain.Todo, error) {
	t, ok := r.m.todos[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	t = r.withCategory(t)
	return &t, nil
}

func (r memTodos) ListByOwner(_ context.Context, ownerUID string) ([]domain.Todo, error) {
	out := []domain.Todo{}
	for _, t := range r.m.todos {
		if t.OwnerUID == ownerUID {
			out = append(out, r.withCategory(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r memTodos) Update(_ context.Context, todo *domain.Todo) error {
	if _, ok := r.m.todos[todo.ID]; !ok {
		return repository.ErrRecordNotFound
	}
	if err := r.checkCategory(todo.CategoryID); err != nil {
		return err
	}
	stored := *todo
	stored.Category = nil
	r.m.todos[todo.ID] = stored
	return nil
}

func (r memTodos) Delete(_ context.Context, id uint) error {
	if _, ok := r.m.todos[id]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(r.m.todos, id)
	return nil
}

func (r memTodos) ClearCategory(_ context.Context, categoryID uint) (int64, error) {
	var n int64
	for id, t := range r.m.todos {
		if t.CategoryID != nil && *t.CategoryID == categoryID {
			t.CategoryID = nil
			r.m.todos[id] = t
			n++
		}
	}
	return n, nil
}

type memCategories struct {
	m *MemoryStore
}

func (r memCategories) Create(_ context.Context, category *domain.Category) error {
	r.m.nextCat++
	category.ID = r.m.nextCat
	r.m.categories[category.ID] = *category
	return nil
}

func (r memCategories) FindByID(_ context.Context, id uint) (*domain.Category, error) {
	c, ok := r.m.categories[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return &c, nil
}

func (r memCategories) ListByOwner(_ context.Context, ownerUID string) ([]domain.Category, error) {
	out := []domain.Category{}
	for _, c := range r.m.categories {
		if c.OwnerUID == ownerUID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memCategories) Update(_ context.Context, category *domain.Category) error {
	if _, ok := r.m.categories[category.ID]; !ok {
		return repository.ErrRecordNotFound
	}
	r.m.categories[category.ID] = *category
	return nil
}

func (r memCategories) Delete(_ context.Context, id uint) error {
	if _, ok := r.m.categories[id]; !ok {
		return repository.ErrRecordNotFound
	}
	for _, t := range r.m.todos {
		if t.CategoryID != nil && *t.CategoryID == id {
			return fmt.Errorf("%w: fk_todos_category", repository.ErrForeignKey)
		}
	}
	delete(r.m.categories, id)
	return nil
}
