package user

import (
	"context"

	"companygrow/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = domain.NewError(domain.ErrNotFound, "user not found")
	ErrEmailExists = domain.NewError(domain.ErrConflict, "email already registered")
)

type Repository interface {
	CreateUser(ctx context.Context, u User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListUsers(ctx context.Context, limit, offset int) ([]User, error)
	// SaveUser persists u when its Version still matches the stored row and bumps
	// u.Version on success. It returns domain.ErrStaleWrite when another writer won.
	SaveUser(ctx context.Context, u *User) error
}
