package user

import (
	"fmt"
	"slices"
	"time"

	"companygrow/internal/domain"

	"github.com/google/uuid"
)

type GoalMode string

const (
	GoalModeTraining GoalMode = "Training"
	GoalModeProject  GoalMode = "Project"
)

type GoalStatus string

const (
	GoalStatusPending    GoalStatus = "pending"
	GoalStatusInProgress GoalStatus = "in-progress"
	GoalStatusCompleted  GoalStatus = "completed"
)

// GoalRef points at the source of a goal. RefID is a course id for Training goals
// and a project id for Project goals.
type GoalRef struct {
	Mode  GoalMode  `json:"mode"`
	RefID uuid.UUID `json:"ref_id"`
}

type Goal struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Ref         GoalRef    `json:"ref"`
	Status      GoalStatus `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (g Goal) Mode() GoalMode {
	return g.Ref.Mode
}

type BadgeTier string

const (
	BadgeGreen  BadgeTier = "Green"
	BadgeCyan   BadgeTier = "Cyan"
	BadgeBlue   BadgeTier = "Blue"
	BadgePurple BadgeTier = "Purple"
	BadgeRed    BadgeTier = "Red"
)

var ErrInvalidBadgeTier = domain.NewError(domain.ErrValidation, "invalid badge tier")

func ParseBadgeTier(s string) (BadgeTier, error) {
	switch t := BadgeTier(s); t {
	case BadgeGreen, BadgeCyan, BadgeBlue, BadgePurple, BadgeRed:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidBadgeTier, s)
	}
}

type BadgeType string

const (
	BadgeTypeCourse  BadgeType = "course"
	BadgeTypeProject BadgeType = "project"
)

type Badge struct {
	Title       BadgeTier `json:"title"`
	Type        BadgeType `json:"type"`
	Description string    `json:"description"`
	DateEarned  time.Time `json:"date_earned"`
	Approved    bool      `json:"approved"`
}

type PeriodMetric struct {
	Period       string  `json:"period"`
	Goals        []Goal  `json:"goals"`
	BadgesEarned []Badge `json:"badges_earned"`
	Rating       *int    `json:"rating,omitempty"`
	Feedback     string  `json:"feedback,omitempty"`
}

func (m PeriodMetric) clone() PeriodMetric {
	out := m
	out.Goals = slices.Clone(m.Goals)
	for i := range out.Goals {
		if c := out.Goals[i].CompletedAt; c != nil {
			at := *c
			out.Goals[i].CompletedAt = &at
		}
	}
	out.BadgesEarned = slices.Clone(m.BadgesEarned)
	if m.Rating != nil {
		r := *m.Rating
		out.Rating = &r
	}
	return out
}

func (m PeriodMetric) Empty() bool {
	return len(m.Goals) == 0 && len(m.BadgesEarned) == 0
}

// Goal returns the goal for ref, or nil.
func (m *PeriodMetric) Goal(ref GoalRef) *Goal {
	for i := range m.Goals {
		if m.Goals[i].Ref == ref {
			return &m.Goals[i]
		}
	}
	return nil
}

// RemoveGoalsByTitle drops every goal with the given title and mode and returns
// how many were removed.
func (m *PeriodMetric) RemoveGoalsByTitle(title string, mode GoalMode) int {
	kept := m.Goals[:0]
	removed := 0
	for _, g := range m.Goals {
		if g.Title == title && g.Mode() == mode {
			removed++
			continue
		}
		kept = append(kept, g)
	}
	m.Goals = kept
	return removed
}

// Metric returns the metric for period, or nil when none was opened yet.
func (u *User) Metric(period string) *PeriodMetric {
	for i := range u.PerformanceMetrics {
		if u.PerformanceMetrics[i].Period == period {
			return &u.PerformanceMetrics[i]
		}
	}
	return nil
}

// CompletedGoal returns the completed goal for ref from any period, or nil.
func (u *User) CompletedGoal(ref GoalRef) *Goal {
	for i := range u.PerformanceMetrics {
		if g := u.PerformanceMetrics[i].Goal(ref); g != nil && g.Status == GoalStatusCompleted {
			return g
		}
	}
	return nil
}

// OpenMetric returns the metric for period, appending an empty one if absent.
// The returned pointer is invalidated by the next append to PerformanceMetrics.
func (u *User) OpenMetric(period string) *PeriodMetric {
	if m := u.Metric(period); m != nil {
		return m
	}
	u.PerformanceMetrics = append(u.PerformanceMetrics, PeriodMetric{
		Period:       period,
		Goals:        []Goal{},
		BadgesEarned: []Badge{},
	})
	return &u.PerformanceMetrics[len(u.PerformanceMetrics)-1]
}

// PruneMetric removes the metric for period if it holds no goals and no badges.
func (u *User) PruneMetric(period string) bool {
	for i := range u.PerformanceMetrics {
		if u.PerformanceMetrics[i].Period != period {
			continue
		}
		if !u.PerformanceMetrics[i].Empty() {
			return false
		}
		u.PerformanceMetrics = append(u.PerformanceMetrics[:i], u.PerformanceMetrics[i+1:]...)
		return true
	}
	return false
}
