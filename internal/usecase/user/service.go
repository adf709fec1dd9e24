package user

import (
	"context"
	"errors"
	"strings"

	"companygrow/internal/domain"
	"companygrow/internal/domain/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

type UpdateMeInput struct {
	Name       *string
	Department *string
	Position   *string
	Password   *string
}

type Service struct {
	users user.Repository
}

func NewService(users user.Repository) *Service {
	return &Service{users: users}
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, err
		}
		return user.User{}, ErrInternal
	}
	return sanitizeUser(usr), nil
}

func (s *Service) UpdateMe(ctx context.Context, userID uuid.UUID, in UpdateMeInput) (user.User, error) {
	var hash string
	if in.Password != nil {
		pw := strings.TrimSpace(*in.Password)
		if len(pw) < 8 {
			return user.User{}, ErrInvalidInput
		}
		h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			return user.User{}, ErrInternal
		}
		hash = string(h)
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return user.User{}, ErrInvalidInput
	}

	var usr user.User
	for attempt := 0; attempt < 3; attempt++ {
		var err error
		usr, err = s.users.GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return user.User{}, err
			}
			return user.User{}, ErrInternal
		}

		if in.Name != nil {
			usr.Name = strings.TrimSpace(*in.Name)
		}
		if in.Department != nil {
			usr.Department = strings.TrimSpace(*in.Department)
		}
		if in.Position != nil {
			usr.Position = strings.TrimSpace(*in.Position)
		}
		if hash != "" {
			usr.PasswordHash = hash
		}

		err = s.users.SaveUser(ctx, &usr)
		if err == nil {
			return sanitizeUser(usr), nil
		}
		if !errors.Is(err, domain.ErrStaleWrite) {
			return user.User{}, ErrInternal
		}
	}
	return user.User{}, ErrInternal
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
