package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"companygrow/internal/domain"
	"companygrow/internal/domain/project"

	"github.com/google/uuid"
)

type ProjectRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]project.Project
}

func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{byID: map[uuid.UUID]project.Project{}}
}

func (r *ProjectRepository) Create(_ context.Context, p project.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	p = p.Clone()
	p.Version = 1
	p.CreatedAt = now
	p.UpdatedAt = now
	r.byID[p.ID] = p
	return nil
}

func (r *ProjectRepository) GetByID(_ context.Context, id uuid.UUID) (project.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return project.Project{}, project.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *ProjectRepository) List(_ context.Context, limit, offset int) ([]project.Project, error) {
	r.mu.RLock()
	all := make([]project.Project, 0, len(r.byID))
	for _, p := range r.byID {
		all = append(all, p.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, limit, offset), nil
}

func (r *ProjectRepository) Save(_ context.Context, p *project.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[p.ID]
	if !ok {
		return project.ErrNotFound
	}
	if cur.Version != p.Version {
		return domain.ErrStaleWrite
	}
	p.Version++
	p.UpdatedAt = time.Now().UTC()
	r.byID[p.ID] = p.Clone()
	return nil
}
