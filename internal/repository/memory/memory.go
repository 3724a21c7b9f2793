// Package memory provides an in-process Gateway for tests that run without
// PostgreSQL. Ids are assigned sequentially from 1.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/stemsi/notes-backend/internal/model"
	"github.com/stemsi/notes-backend/internal/repository"
)

// Repository keeps one entity kind in a map keyed by id.
type Repository[T model.Entity] struct {
	mu     sync.RWMutex
	table  repository.Table[T]
	items  map[int]T
	nextID int

	// OnDelete runs after an item has been removed, outside the lock.
	// Callers use it to emulate ON DELETE CASCADE between kinds.
	OnDelete func(ctx context.Context, id int)

	// Fail, when set, is returned by every operation.
	Fail error
}

// New creates an empty Repository for the kind described by table.
func New[T model.Entity](table repository.Table[T]) *Repository[T] {
	return &Repository[T]{
		table:  table,
		items:  make(map[int]T),
		nextID: 1,
	}
}

func (r *Repository[T]) Get(ctx context.Context, id int) (*T, error) {
	if r.Fail != nil {
		return nil, r.Fail
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, repository.NotFound(id)
	}
	return &item, nil
}

func (r *Repository[T]) Save(ctx context.Context, item *T) (*T, error) {
	if r.Fail != nil {
		return nil, r.Fail
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := *item
	*r.table.Key(&saved) = r.nextID
	r.items[r.nextID] = saved
	r.nextID++
	return &saved, nil
}

func (r *Repository[T]) Update(ctx context.Context, id int, patch model.Patch[T]) (*T, error) {
	if r.Fail != nil {
		return nil, r.Fail
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[id]
	if !ok {
		return nil, repository.NotFound(id)
	}
	patch.Apply(&current)
	*r.table.Key(&current) = id
	r.items[id] = current
	return &current, nil
}

func (r *Repository[T]) Delete(ctx context.Context, id int) error {
	if r.Fail != nil {
		return r.Fail
	}
	r.mu.Lock()
	if _, ok := r.items[id]; !ok {
		r.mu.Unlock()
		return repository.NotFound(id)
	}
	delete(r.items, id)
	r.mu.Unlock()

	if r.OnDelete != nil {
		r.OnDelete(ctx, id)
	}
	return nil
}

func (r *Repository[T]) ListByFilter(ctx context.Context, filter model.Filter[T]) ([]T, error) {
	if r.Fail != nil {
		return nil, r.Fail
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	matched := make([]T, 0, len(ids))
	for _, id := range ids {
		item := r.items[id]
		if filter == nil || filter.Match(&item) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// DeleteWhere removes every item for which match returns true, firing
// OnDelete for each.
func (r *Repository[T]) DeleteWhere(ctx context.Context, match func(*T) bool) {
	r.mu.Lock()
	var removed []int
	for id, item := range r.items {
		if match(&item) {
			delete(r.items, id)
			removed = append(removed, id)
		}
	}
	r.mu.Unlock()

	if r.OnDelete != nil {
		for _, id := range removed {
			r.OnDelete(ctx, id)
		}
	}
}

// Catalog holds one Repository per kind with cascading deletes wired
// course -> subject -> content.
type Catalog struct {
	Courses  *Repository[model.Course]
	Subjects *Repository[model.Subject]
	Contents *Repository[model.Content]
}

// NewCatalog returns an empty, cascade-wired Catalog.
func NewCatalog() *Catalog {
	c := &Catalog{
		Courses:  New(repository.Courses),
		Subjects: New(repository.Subjects),
		Contents: New(repository.Contents),
	}
	c.Courses.OnDelete = func(ctx context.Context, id int) {
		c.Subjects.DeleteWhere(ctx, func(s *model.Subject) bool { return s.CourseID == id })
	}
	c.Subjects.OnDelete = func(ctx context.Context, id int) {
		c.Contents.DeleteWhere(ctx, func(ct *model.Content) bool { return ct.SubjectID == id })
	}
	return c
}
