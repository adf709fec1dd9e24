package project

import (
	"context"
	"fmt"
	"slices"
	"time"

	"companygrow/internal/domain"
	"companygrow/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = domain.NewError(domain.ErrNotFound, "project not found")
	ErrInvalidStatus = domain.NewError(domain.ErrValidation, "invalid project status")
)

type Status string

const (
	StatusPlanning   Status = "planning"
	StatusInProgress Status = "in-progress"
	StatusOnHold     Status = "on-hold"
	StatusCompleted  Status = "completed"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPlanning, StatusInProgress, StatusOnHold, StatusCompleted:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

type Project struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	AssignedUsers  []uuid.UUID     `json:"assigned_users"`
	SkillsRequired []string        `json:"skills_required"`
	SkillsGained   []string        `json:"skills_gained"`
	Status         Status          `json:"status"`
	BadgeReward    *user.BadgeTier `json:"badge_reward,omitempty"`
	ManagedBy      uuid.UUID       `json:"managed_by"`
	Deadline       *time.Time      `json:"deadline,omitempty"`
	Version        int64           `json:"-"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (p Project) IsAssigned(userID uuid.UUID) bool {
	for _, id := range p.AssignedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// Assign adds userID to the assignee set. It reports false if already present.
func (p *Project) Assign(userID uuid.UUID) bool {
	if p.IsAssigned(userID) {
		return false
	}
	p.AssignedUsers = append(p.AssignedUsers, userID)
	return true
}

// Unassign removes userID from the assignee set. It reports false if absent.
func (p *Project) Unassign(userID uuid.UUID) bool {
	for i, id := range p.AssignedUsers {
		if id == userID {
			p.AssignedUsers = append(p.AssignedUsers[:i], p.AssignedUsers[i+1:]...)
			return true
		}
	}
	return false
}

func (p Project) Clone() Project {
	out := p
	out.AssignedUsers = slices.Clone(p.AssignedUsers)
	out.SkillsRequired = slices.Clone(p.SkillsRequired)
	out.SkillsGained = slices.Clone(p.SkillsGained)
	if p.BadgeReward != nil {
		r := *p.BadgeReward
		out.BadgeReward = &r
	}
	if p.Deadline != nil {
		d := *p.Deadline
		out.Deadline = &d
	}
	return out
}

type Repository interface {
	Create(ctx context.Context, p Project) error
	GetByID(ctx context.Context, id uuid.UUID) (Project, error)
	List(ctx context.Context, limit, offset int) ([]Project, error)
	Save(ctx context.Context, p *Project) error
}
