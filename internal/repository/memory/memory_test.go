package memory

import (
	"context"
	"testing"

	"companygrow/internal/domain"
	"companygrow/internal/domain/course"
	"companygrow/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_VersionCheck(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	id := uuid.New()
	require.NoError(t, repo.CreateUser(ctx, user.User{ID: id, Email: "a@example.com"}))

	first, err := repo.GetUserByID(ctx, id)
	require.NoError(t, err)
	second, err := repo.GetUserByID(ctx, id)
	require.NoError(t, err)

	first.Name = "first"
	require.NoError(t, repo.SaveUser(ctx, &first))
	assert.Equal(t, int64(2), first.Version)

	second.Name = "second"
	err = repo.SaveUser(ctx, &second)
	assert.ErrorIs(t, err, domain.ErrStaleWrite)
	assert.ErrorIs(t, err, domain.ErrConflict)

	stored, err := repo.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "first", stored.Name)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	id := uuid.New()
	require.NoError(t, repo.CreateUser(ctx, user.User{ID: id, Email: "a@example.com", Skills: []string{"Go"}}))

	u, err := repo.GetUserByID(ctx, id)
	require.NoError(t, err)
	u.Skills[0] = "mutated"

	again, err := repo.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, again.Skills)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	require.NoError(t, repo.CreateUser(ctx, user.User{ID: uuid.New(), Email: "a@example.com"}))
	err := repo.CreateUser(ctx, user.User{ID: uuid.New(), Email: "a@example.com"})
	assert.ErrorIs(t, err, user.ErrEmailExists)
}

func TestCourseRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepository()

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.Save(ctx, &course.Course{ID: uuid.New()})
	assert.ErrorIs(t, err, course.ErrNotFound)
}

func TestPage(t *testing.T) {
	all := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{3, 4}, page(all, 2, 2))
	assert.Equal(t, []int{}, page(all, 2, 10))
	assert.Equal(t, all, page(all, 0, 0))
}
