package course

import (
	"context"
	"slices"
	"time"

	"companygrow/internal/domain"
	"companygrow/internal/domain/user"

	"github.com/google/uuid"
)

var ErrNotFound = domain.NewError(domain.ErrNotFound, "course not found")

type Module struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Duration int    `json:"duration_minutes"`
}

type Enrollment struct {
	UserID           uuid.UUID  `json:"user_id"`
	Progress         int        `json:"progress"`
	CompletedModules []string   `json:"completed_modules"`
	EnrolledAt       time.Time  `json:"enrolled_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

func (e Enrollment) HasCompleted(moduleID string) bool {
	for _, id := range e.CompletedModules {
		if id == moduleID {
			return true
		}
	}
	return false
}

type Course struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Category      string          `json:"category,omitempty"`
	Difficulty    string          `json:"difficulty,omitempty"`
	Content       []Module        `json:"content"`
	EnrolledUsers []Enrollment    `json:"enrolled_users"`
	SkillsGained  []string        `json:"skills_gained"`
	BadgeReward   *user.BadgeTier `json:"badge_reward,omitempty"`
	CreatedBy     uuid.UUID       `json:"created_by"`
	Version       int64           `json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Enrollment returns the enrollment record of userID, or nil.
func (c *Course) Enrollment(userID uuid.UUID) *Enrollment {
	for i := range c.EnrolledUsers {
		if c.EnrolledUsers[i].UserID == userID {
			return &c.EnrolledUsers[i]
		}
	}
	return nil
}

func (c Course) HasModule(moduleID string) bool {
	for _, m := range c.Content {
		if m.ID == moduleID {
			return true
		}
	}
	return false
}

func (c Course) Clone() Course {
	out := c
	out.Content = slices.Clone(c.Content)
	out.SkillsGained = slices.Clone(c.SkillsGained)
	if c.BadgeReward != nil {
		r := *c.BadgeReward
		out.BadgeReward = &r
	}
	if c.EnrolledUsers != nil {
		out.EnrolledUsers = make([]Enrollment, len(c.EnrolledUsers))
		for i, e := range c.EnrolledUsers {
			e.CompletedModules = slices.Clone(e.CompletedModules)
			if e.CompletedAt != nil {
				at := *e.CompletedAt
				e.CompletedAt = &at
			}
			out.EnrolledUsers[i] = e
		}
	}
	return out
}

type Repository interface {
	Create(ctx context.Context, c Course) error
	GetByID(ctx context.Context, id uuid.UUID) (Course, error)
	List(ctx context.Context, limit, offset int) ([]Course, error)
	// Save is version checked the same way as user.Repository.SaveUser.
	Save(ctx context.Context, c *Course) error
}
