package usecase

import (
	"context"

	"companygrow/internal/domain/user"
	ucuser "companygrow/internal/usecase/user"

	"github.com/google/uuid"
)

type UserUsecase interface {
	GetMe(ctx context.Context, userID uuid.UUID) (user.User, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, in ucuser.UpdateMeInput) (user.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]user.User, error)
}

type User struct {
	svc   *ucuser.Service
	users user.Repository
}

func NewUserUsecase(users user.Repository) *User {
	return &User{svc: ucuser.NewService(users), users: users}
}

func (u *User) GetMe(ctx context.Context, userID uuid.UUID) (user.User, error) {
	return u.svc.GetMe(ctx, userID)
}

func (u *User) UpdateMe(ctx context.Context, userID uuid.UUID, in ucuser.UpdateMeInput) (user.User, error) {
	return u.svc.UpdateMe(ctx, userID, in)
}

// ListUsers is the reviewer directory; password hashes are stripped.
func (u *User) ListUsers(ctx context.Context, limit, offset int) ([]user.User, error) {
	out, err := u.users.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, storeError(err)
	}
	for i := range out {
		out[i].PasswordHash = ""
	}
	return out, nil
}
