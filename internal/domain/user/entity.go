package user

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanReview reports whether the role may approve badges, complete projects and
// manage course/project catalogs.
func (r Role) CanReview() bool {
	return r == RoleManager || r == RoleAdmin
}

type User struct {
	ID                 uuid.UUID      `json:"id"`
	Email              string         `json:"email"`
	PasswordHash       string         `json:"-"`
	Name               string         `json:"name"`
	Role               Role           `json:"role"`
	Department         string         `json:"department,omitempty"`
	Position           string         `json:"position,omitempty"`
	Skills             []string       `json:"skills"`
	PerformanceMetrics []PeriodMetric `json:"performance_metrics"`
	Version            int64          `json:"-"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// Clone returns a deep copy so callers can mutate it without aliasing the original.
func (u User) Clone() User {
	out := u
	out.Skills = slices.Clone(u.Skills)
	if u.PerformanceMetrics != nil {
		out.PerformanceMetrics = make([]PeriodMetric, len(u.PerformanceMetrics))
		for i, m := range u.PerformanceMetrics {
			out.PerformanceMetrics[i] = m.clone()
		}
	}
	return out
}

// HasSkill does a trim-normalized, case-insensitive lookup.
func (u User) HasSkill(skill string) bool {
	key := skillKey(skill)
	if key == "" {
		return false
	}
	for _, s := range u.Skills {
		if skillKey(s) == key {
			return true
		}
	}
	return false
}

func skillKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
