package usecase

import (
	"context"
	"testing"
	"time"

	"companygrow/internal/domain/user"
	"companygrow/internal/pkg/jwt"
	"companygrow/internal/repository/memory"
	ucauth "companygrow/internal/usecase/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth() (*Auth, *jwt.HMACService) {
	svc := jwt.NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	return NewAuthUsecase(memory.NewUserRepository(), svc, "boss@example.com"), svc
}

func TestAuth_RegisterLoginRefresh(t *testing.T) {
	ctx := context.Background()
	uc, svc := newAuth()

	u, access, refresh, err := uc.Register(ctx, ucauth.RegisterInput{Email: " Dana@Example.com ", Password: "password123", Name: "Dana"})
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", u.Email)
	assert.Equal(t, user.RoleEmployee, u.Role)
	assert.Empty(t, u.PasswordHash)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, "employee", claims.Role)

	_, _, _, err = uc.Login(ctx, ucauth.LoginInput{Email: "dana@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ucauth.ErrInvalidCredentials)

	_, _, _, err = uc.Login(ctx, ucauth.LoginInput{Email: "dana@example.com", Password: "password123"})
	require.NoError(t, err)

	newAccess, newRefresh, err := uc.Refresh(ctx, refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEmpty(t, newRefresh)

	_, _, err = uc.Refresh(ctx, access)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuth_BootstrapAdminAndDuplicates(t *testing.T) {
	ctx := context.Background()
	uc, _ := newAuth()

	admin, _, _, err := uc.Register(ctx, ucauth.RegisterInput{Email: "BOSS@example.com", Password: "password123", Name: "Boss"})
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, admin.Role)

	_, _, _, err = uc.Register(ctx, ucauth.RegisterInput{Email: "boss@example.com", Password: "password123", Name: "Again"})
	assert.ErrorIs(t, err, ucauth.ErrEmailAlreadyRegistered)

	_, _, _, err = uc.Register(ctx, ucauth.RegisterInput{Email: "x@example.com", Password: "short", Name: "X"})
	assert.ErrorIs(t, err, ucauth.ErrInvalidInput)
}
