package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"companygrow/internal/domain"
	"companygrow/internal/domain/course"

	"github.com/google/uuid"
)

type CourseRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]course.Course
}

func NewCourseRepository() *CourseRepository {
	return &CourseRepository{byID: map[uuid.UUID]course.Course{}}
}

func (r *CourseRepository) Create(_ context.Context, c course.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	c = c.Clone()
	c.Version = 1
	c.CreatedAt = now
	c.UpdatedAt = now
	r.byID[c.ID] = c
	return nil
}

func (r *CourseRepository) GetByID(_ context.Context, id uuid.UUID) (course.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
	return c.Clone(), nil
}

func (r *CourseRepository) List(_ context.Context, limit, offset int) ([]course.Course, error) {
	r.mu.RLock()
	all := make([]course.Course, 0, len(r.byID))
	for _, c := range r.byID {
		all = append(all, c.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, limit, offset), nil
}

func (r *CourseRepository) Save(_ context.Context, c *course.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[c.ID]
	if !ok {
		return course.ErrNotFound
	}
	if cur.Version != c.Version {
		return domain.ErrStaleWrite
	}
	c.Version++
	c.UpdatedAt = time.Now().UTC()
	r.byID[c.ID] = c.Clone()
	return nil
}
