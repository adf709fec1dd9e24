// Package memory holds process-local repositories. They honour the same version
// checks as the Postgres ones and hand out deep copies.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"companygrow/internal/domain"
	"companygrow/internal/domain/user"

	"github.com/google/uuid"
)

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]user.User
	byEmail map[string]uuid.UUID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    map[uuid.UUID]user.User{},
		byEmail: map[string]uuid.UUID{},
	}
}

func (r *UserRepository) CreateUser(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[u.Email]; ok {
		return user.ErrEmailExists
	}
	now := time.Now().UTC()
	u = u.Clone()
	u.Version = 1
	u.CreatedAt = now
	u.UpdatedAt = now
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *UserRepository) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u.Clone(), nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return r.GetUserByID(ctx, id)
}

func (r *UserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *UserRepository) ListUsers(_ context.Context, limit, offset int) ([]user.User, error) {
	r.mu.RLock()
	all := make([]user.User, 0, len(r.byID))
	for _, u := range r.byID {
		all = append(all, u.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return page(all, limit, offset), nil
}

func (r *UserRepository) SaveUser(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[u.ID]
	if !ok {
		return user.ErrNotFound
	}
	if cur.Version != u.Version {
		return domain.ErrStaleWrite
	}
	if cur.Email != u.Email {
		if _, taken := r.byEmail[u.Email]; taken {
			return user.ErrEmailExists
		}
		delete(r.byEmail, cur.Email)
		r.byEmail[u.Email] = u.ID
	}

	u.Version++
	u.UpdatedAt = time.Now().UTC()
	r.byID[u.ID] = u.Clone()
	return nil
}

func page[T any](all []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []T{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}
