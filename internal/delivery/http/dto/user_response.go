package dto

import (
	"time"

	"companygrow/internal/domain/user"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Department string    `json:"department,omitempty"`
	Position   string    `json:"position,omitempty"`
	Skills     []string  `json:"skills"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewUserProfileResponse(u user.User) UserProfileResponse {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return UserProfileResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       string(u.Role),
		Department: u.Department,
		Position:   u.Position,
		Skills:     skills,
		CreatedAt:  u.CreatedAt,
	}
}

func NewUserProfileList(users []user.User) []UserProfileResponse {
	out := make([]UserProfileResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserProfileResponse(u))
	}
	return out
}

type AuthResponse struct {
	User         *UserProfileResponse `json:"user,omitempty"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}
