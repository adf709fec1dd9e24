// Package performance reconciles course and project lifecycle events into the
// per-period goal and badge ledger of a user.
//
// Every function here is pure: callers load the aggregates, pass the period label
// derived once for the request, and persist whatever was mutated.
package performance

import (
	"math"
	"time"

	"companygrow/internal/domain/course"
	"companygrow/internal/domain/project"
	"companygrow/internal/domain/user"

	"github.com/google/uuid"
)

// Progress is the enrollment state after a module completion.
type Progress struct {
	Percent          int  `json:"progress"`
	CompletedModules int  `json:"completed_modules"`
	TotalModules     int  `json:"total_modules"`
	CourseCompleted  bool `json:"course_completed"`
}

// Completion describes what a goal completion produced on the user ledger.
type Completion struct {
	Period      string
	Goal        user.Goal
	Badge       *user.Badge
	SkillsAdded []string
	// Transitioned is false when the goal was already completed.
	Transitioned bool
}

func TrainingRef(c course.Course) user.GoalRef {
	return user.GoalRef{Mode: user.GoalModeTraining, RefID: c.ID}
}

func ProjectRef(p project.Project) user.GoalRef {
	return user.GoalRef{Mode: user.GoalModeProject, RefID: p.ID}
}

// EnrollUser appends a fresh enrollment for userID.
func EnrollUser(c *course.Course, userID uuid.UUID, now time.Time) error {
	if c.Enrollment(userID) != nil {
		return ErrAlreadyEnrolled
	}
	c.EnrolledUsers = append(c.EnrolledUsers, course.Enrollment{
		UserID:           userID,
		Progress:         0,
		CompletedModules: []string{},
		EnrolledAt:       now.UTC(),
	})
	return nil
}

// OpenTrainingGoal upserts the Training goal for c in period. An existing goal is
// returned untouched.
func OpenTrainingGoal(u *user.User, c course.Course, period string) *user.Goal {
	return upsertGoal(u, period, user.Goal{
		Title:       c.Title,
		Description: c.Description,
		Ref:         TrainingRef(c),
		Status:      user.GoalStatusPending,
	})
}

// OpenProjectGoal upserts the Project goal for p in period.
func OpenProjectGoal(u *user.User, p project.Project, period string) *user.Goal {
	return upsertGoal(u, period, user.Goal{
		Title:       p.Name,
		Description: p.Description,
		Ref:         ProjectRef(p),
		Status:      user.GoalStatusInProgress,
	})
}

func upsertGoal(u *user.User, period string, g user.Goal) *user.Goal {
	m := u.OpenMetric(period)
	if existing := m.Goal(g.Ref); existing != nil {
		return existing
	}
	m.Goals = append(m.Goals, g)
	return &m.Goals[len(m.Goals)-1]
}

// RemoveProjectGoal drops the Project goals of p from period, matching on title,
// and prunes the metric when it ends up empty. A project renamed after the
// assignment is not found.
func RemoveProjectGoal(u *user.User, p project.Project, period string) int {
	m := u.Metric(period)
	if m == nil {
		return 0
	}
	removed := m.RemoveGoalsByTitle(p.Name, user.GoalModeProject)
	u.PruneMetric(period)
	return removed
}

// RecordModuleCompletion marks moduleID done for userID and recomputes progress.
func RecordModuleCompletion(c *course.Course, userID uuid.UUID, moduleID string, now time.Time) (Progress, error) {
	e := c.Enrollment(userID)
	if e == nil {
		return Progress{}, ErrNotEnrolled
	}
	if !c.HasModule(moduleID) {
		return Progress{}, ErrModuleNotFound
	}
	if e.HasCompleted(moduleID) {
		return Progress{}, ErrModuleAlreadyCompleted
	}

	e.CompletedModules = append(e.CompletedModules, moduleID)
	e.Progress = progressPercent(len(e.CompletedModules), len(c.Content))
	if e.Progress >= 100 {
		at := now.UTC()
		e.CompletedAt = &at
	}
	return EnrollmentProgress(*c, userID)
}

// EnrollmentProgress reports the recorded progress of userID in c.
func EnrollmentProgress(c course.Course, userID uuid.UUID) (Progress, error) {
	e := c.Enrollment(userID)
	if e == nil {
		return Progress{}, ErrNotEnrolled
	}
	return Progress{
		Percent:          e.Progress,
		CompletedModules: len(e.CompletedModules),
		TotalModules:     len(c.Content),
		CourseCompleted:  e.Progress >= 100,
	}, nil
}

func progressPercent(done, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(done) / float64(total)))
	if pct > 100 {
		return 100
	}
	return pct
}

// AdvanceTrainingGoal applies module progress to the user's Training goal. On
// course completion the goal is completed, the course badge issued and its skills
// merged, unless a Training goal for c was completed in any period; otherwise a
// pending goal moves to in-progress.
func AdvanceTrainingGoal(u *user.User, c course.Course, period string, progress Progress, now time.Time) Completion {
	if !progress.CourseCompleted {
		g := OpenTrainingGoal(u, c, period)
		if g.Status == user.GoalStatusPending && progress.CompletedModules > 0 {
			g.Status = user.GoalStatusInProgress
		}
		return Completion{Period: period, Goal: *g}
	}

	if g := u.CompletedGoal(TrainingRef(c)); g != nil {
		return Completion{Period: period, Goal: *g}
	}
	goal := OpenTrainingGoal(u, c, period)
	return completeGoal(u, goal, period, c.BadgeReward, user.BadgeTypeCourse, c.Title, c.SkillsGained, now)
}

// MarkProjectCompleted flips the project status. Completion happens once.
func MarkProjectCompleted(p *project.Project) error {
	if p.Status == project.StatusCompleted {
		return ErrProjectAlreadyCompleted
	}
	p.Status = project.StatusCompleted
	return nil
}

// CompleteProjectGoal completes the user's Project goal for p in period, opening
// it first if the assignment happened in an earlier period. A goal already
// completed in any period is left as is.
func CompleteProjectGoal(u *user.User, p project.Project, period string, now time.Time) Completion {
	if g := u.CompletedGoal(ProjectRef(p)); g != nil {
		return Completion{Period: period, Goal: *g}
	}
	goal := OpenProjectGoal(u, p, period)
	return completeGoal(u, goal, period, p.BadgeReward, user.BadgeTypeProject, p.Name, p.SkillsGained, now)
}

func completeGoal(u *user.User, goal *user.Goal, period string, reward *user.BadgeTier, typ user.BadgeType, source string, skills []string, now time.Time) Completion {
	if goal.Status == user.GoalStatusCompleted {
		return Completion{Period: period, Goal: *goal}
	}

	at := now.UTC()
	goal.Status = user.GoalStatusCompleted
	goal.CompletedAt = &at
	out := Completion{Period: period, Goal: *goal, Transitioned: true}

	if b := IssueBadge(u.OpenMetric(period), reward, typ, source, now); b != nil {
		out.Badge = b
	}
	out.SkillsAdded = MergeSkills(u, skills)
	return out
}
