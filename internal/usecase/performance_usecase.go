package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"companygrow/internal/domain"
	"companygrow/internal/domain/bonus"
	"companygrow/internal/domain/course"
	"companygrow/internal/domain/performance"
	"companygrow/internal/domain/period"
	"companygrow/internal/domain/project"
	"companygrow/internal/domain/user"
	"companygrow/internal/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultBatchConcurrency = 8

type PerformanceUsecase interface {
	Enroll(ctx context.Context, userID, courseID uuid.UUID) (EnrollResult, error)
	CompleteModule(ctx context.Context, userID, courseID uuid.UUID, moduleID string) (ModuleResult, error)
	Assign(ctx context.Context, userID, projectID uuid.UUID) (AssignResult, error)
	Deassign(ctx context.Context, userID, projectID uuid.UUID) (AssignResult, error)
	CompleteProject(ctx context.Context, projectID uuid.UUID) (ProjectCompletion, error)
}

type EnrollResult struct {
	Period string    `json:"period"`
	Goal   user.Goal `json:"goal"`
}

type ModuleResult struct {
	Period      string               `json:"period"`
	Progress    performance.Progress `json:"progress"`
	Goal        user.Goal            `json:"goal"`
	Badge       *bonus.KeyedBadge    `json:"badge,omitempty"`
	SkillsAdded []string             `json:"skills_added"`
}

type AssignResult struct {
	Period       string      `json:"period"`
	Changed      bool        `json:"changed"`
	GoalsRemoved int         `json:"goals_removed,omitempty"`
	Goal         *user.Goal  `json:"goal,omitempty"`
	Assigned     []uuid.UUID `json:"assigned_users"`
}

const (
	OutcomeCompleted        = "completed"
	OutcomeAlreadyCompleted = "already-completed"
	OutcomeFailed           = "failed"
)

// UserOutcome is the per-user result of a project completion.
type UserOutcome struct {
	UserID      uuid.UUID         `json:"user_id"`
	Status      string            `json:"status"`
	Badge       *bonus.KeyedBadge `json:"badge,omitempty"`
	SkillsAdded []string          `json:"skills_added,omitempty"`
	Error       string            `json:"error,omitempty"`

	err error
}

type ProjectCompletion struct {
	ProjectID uuid.UUID     `json:"project_id"`
	Period    string        `json:"period"`
	Outcomes  []UserOutcome `json:"outcomes"`
	Failed    int           `json:"failed"`
}

type Performance struct {
	users    user.Repository
	courses  course.Repository
	projects project.Repository
	notifier Notifier
	log      *logger.Logger

	now         func() time.Time
	concurrency int
}

type PerformanceOption func(*Performance)

func WithClock(now func() time.Time) PerformanceOption {
	return func(p *Performance) { p.now = now }
}

func WithBatchConcurrency(n int) PerformanceOption {
	return func(p *Performance) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

func NewPerformanceUsecase(users user.Repository, courses course.Repository, projects project.Repository, notifier Notifier, log *logger.Logger, opts ...PerformanceOption) *Performance {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if log == nil {
		log = logger.Nop()
	}
	p := &Performance{
		users:       users,
		courses:     courses,
		projects:    projects,
		notifier:    notifier,
		log:         log.With("component", "performance"),
		now:         time.Now,
		concurrency: defaultBatchConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (uc *Performance) Enroll(ctx context.Context, userID, courseID uuid.UUID) (EnrollResult, error) {
	now := uc.now()
	label := period.Of(now)

	if _, err := uc.users.GetUserByID(ctx, userID); err != nil {
		return EnrollResult{}, storeError(err)
	}

	var c course.Course
	err := retryStale(ctx, func() error {
		var err error
		if c, err = uc.courses.GetByID(ctx, courseID); err != nil {
			return err
		}
		if err := performance.EnrollUser(&c, userID, now); err != nil {
			return err
		}
		return uc.courses.Save(ctx, &c)
	})
	if err != nil {
		return EnrollResult{}, storeError(err)
	}

	var goal user.Goal
	err = retryStale(ctx, func() error {
		u, err := uc.users.GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		goal = *performance.OpenTrainingGoal(&u, c, label)
		return uc.users.SaveUser(ctx, &u)
	})
	if err != nil {
		uc.log.Error("enrollment saved but training goal was not", "user_id", userID, "course_id", courseID, "error", err)
		return EnrollResult{}, storeError(err)
	}

	uc.log.Info("user enrolled", "user_id", userID, "course_id", courseID, "period", label)
	return EnrollResult{Period: label, Goal: goal}, nil
}

// CompleteModule records moduleID for the user and advances the Training goal.
// Completing an already completed module of a finished course re-runs the goal
// completion, so a ledger write lost after the course write can be recovered.
func (uc *Performance) CompleteModule(ctx context.Context, userID, courseID uuid.UUID, moduleID string) (ModuleResult, error) {
	now := uc.now()
	label := period.Of(now)

	if moduleID == "" {
		return ModuleResult{}, performance.ErrModuleNotFound
	}

	var (
		c        course.Course
		progress performance.Progress
	)
	err := retryStale(ctx, func() error {
		var err error
		if c, err = uc.courses.GetByID(ctx, courseID); err != nil {
			return err
		}
		if progress, err = performance.RecordModuleCompletion(&c, userID, moduleID, now); err != nil {
			return err
		}
		return uc.courses.Save(ctx, &c)
	})
	if errors.Is(err, performance.ErrModuleAlreadyCompleted) {
		return uc.resumeCourseCompletion(ctx, userID, c, label, now)
	}
	if err != nil {
		return ModuleResult{}, storeError(err)
	}

	done, err := uc.advanceTraining(ctx, userID, c, label, progress, now, true)
	if err != nil {
		uc.log.Error("module progress saved but ledger was not", "user_id", userID, "course_id", courseID, "module_id", moduleID, "error", err)
		return ModuleResult{}, err
	}
	return uc.moduleResult(userID, c, label, progress, done), nil
}

func (uc *Performance) resumeCourseCompletion(ctx context.Context, userID uuid.UUID, c course.Course, label string, now time.Time) (ModuleResult, error) {
	progress, err := performance.EnrollmentProgress(c, userID)
	if err != nil {
		return ModuleResult{}, err
	}
	if !progress.CourseCompleted {
		return ModuleResult{}, performance.ErrModuleAlreadyCompleted
	}

	done, err := uc.advanceTraining(ctx, userID, c, label, progress, now, false)
	if err != nil {
		return ModuleResult{}, err
	}
	if !done.Transitioned {
		return ModuleResult{}, performance.ErrModuleAlreadyCompleted
	}
	uc.log.Warn("training goal completed on retry", "user_id", userID, "course_id", c.ID, "period", label)
	return uc.moduleResult(userID, c, label, progress, done), nil
}

// advanceTraining applies progress to the stored ledger. With always unset the
// user is saved only when the goal transitioned.
func (uc *Performance) advanceTraining(ctx context.Context, userID uuid.UUID, c course.Course, label string, progress performance.Progress, now time.Time, always bool) (performance.Completion, error) {
	var done performance.Completion
	err := retryStale(ctx, func() error {
		u, err := uc.users.GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		done = performance.AdvanceTrainingGoal(&u, c, label, progress, now)
		if !always && !done.Transitioned {
			return nil
		}
		return uc.users.SaveUser(ctx, &u)
	})
	return done, storeError(err)
}

func (uc *Performance) moduleResult(userID uuid.UUID, c course.Course, label string, progress performance.Progress, done performance.Completion) ModuleResult {
	res := ModuleResult{
		Period:      label,
		Progress:    progress,
		Goal:        done.Goal,
		SkillsAdded: nonNilStrings(done.SkillsAdded),
	}
	if done.Badge != nil {
		kb := keyed(label, *done.Badge)
		res.Badge = &kb
		uc.notifier.Notify(userID, EventBadgeEarned, kb)
	}
	if done.Transitioned {
		uc.log.Info("training goal completed", "user_id", userID, "course_id", c.ID, "period", label, "badge", done.Badge != nil)
	}
	return res
}

func (uc *Performance) Assign(ctx context.Context, userID, projectID uuid.UUID) (AssignResult, error) {
	label := period.Of(uc.now())

	if _, err := uc.users.GetUserByID(ctx, userID); err != nil {
		return AssignResult{}, storeError(err)
	}

	var (
		p       project.Project
		changed bool
	)
	err := retryStale(ctx, func() error {
		var err error
		if p, err = uc.projects.GetByID(ctx, projectID); err != nil {
			return err
		}
		if changed = p.Assign(userID); !changed {
			return nil
		}
		return uc.projects.Save(ctx, &p)
	})
	if err != nil {
		return AssignResult{}, storeError(err)
	}

	var goal user.Goal
	err = retryStale(ctx, func() error {
		u, err := uc.users.GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		goal = *performance.OpenProjectGoal(&u, p, label)
		return uc.users.SaveUser(ctx, &u)
	})
	if err != nil {
		return AssignResult{}, storeError(err)
	}

	return AssignResult{Period: label, Changed: changed, Goal: &goal, Assigned: p.AssignedUsers}, nil
}

// Deassign removes userID from the project and drops the matching Project goal of
// the current period. The goal is dropped even when the user was no longer
// assigned, which finishes a deassignment whose ledger write was lost.
func (uc *Performance) Deassign(ctx context.Context, userID, projectID uuid.UUID) (AssignResult, error) {
	label := period.Of(uc.now())

	var (
		p       project.Project
		changed bool
	)
	err := retryStale(ctx, func() error {
		var err error
		if p, err = uc.projects.GetByID(ctx, projectID); err != nil {
			return err
		}
		if changed = p.Unassign(userID); !changed {
			return nil
		}
		return uc.projects.Save(ctx, &p)
	})
	if err != nil {
		return AssignResult{}, storeError(err)
	}

	var removed int
	err = retryStale(ctx, func() error {
		u, err := uc.users.GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		if removed = performance.RemoveProjectGoal(&u, p, label); removed == 0 {
			return nil
		}
		return uc.users.SaveUser(ctx, &u)
	})
	if err != nil {
		return AssignResult{}, storeError(err)
	}
	if changed && removed == 0 {
		uc.log.Warn("no project goal matched on deassign", "user_id", userID, "project_id", projectID, "period", label)
	}

	return AssignResult{Period: label, Changed: changed || removed > 0, GoalsRemoved: removed, Assigned: p.AssignedUsers}, nil
}

// CompleteProject marks the project completed and then completes the project goal
// of every assignee independently. Users that fail are reported in the outcomes and
// the returned error wraps domain.ErrPartialBatchFailure; committed users stay
// committed. Calling it again on a completed project retries the assignees whose
// goal is still open and reports the others as already completed.
func (uc *Performance) CompleteProject(ctx context.Context, projectID uuid.UUID) (ProjectCompletion, error) {
	now := uc.now()
	label := period.Of(now)

	var p project.Project
	err := retryStale(ctx, func() error {
		var err error
		if p, err = uc.projects.GetByID(ctx, projectID); err != nil {
			return err
		}
		if err := performance.MarkProjectCompleted(&p); err != nil {
			return err
		}
		return uc.projects.Save(ctx, &p)
	})
	resumed := errors.Is(err, performance.ErrProjectAlreadyCompleted)
	if err != nil && !resumed {
		return ProjectCompletion{}, storeError(err)
	}
	if resumed {
		uc.log.Info("project already completed, reconciling assignees", "project_id", p.ID)
	}

	out := ProjectCompletion{
		ProjectID: p.ID,
		Period:    label,
		Outcomes:  make([]UserOutcome, len(p.AssignedUsers)),
	}

	var g errgroup.Group
	g.SetLimit(uc.concurrency)
	for i, userID := range p.AssignedUsers {
		g.Go(func() error {
			out.Outcomes[i] = uc.completeForUser(ctx, p, userID, label, now)
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range out.Outcomes {
		if o.err == nil {
			continue
		}
		out.Failed++
		uc.log.Error("project completion failed for user", "project_id", p.ID, "user_id", o.UserID, "error", o.err)
	}

	uc.log.Info("project completed", "project_id", p.ID, "period", label, "users", len(out.Outcomes), "failed", out.Failed)
	if out.Failed > 0 {
		return out, fmt.Errorf("%w: %d of %d users failed", domain.ErrPartialBatchFailure, out.Failed, len(out.Outcomes))
	}
	return out, nil
}

func (uc *Performance) completeForUser(ctx context.Context, p project.Project, userID uuid.UUID, label string, now time.Time) UserOutcome {
	var done performance.Completion
	err := retryStale(ctx, func() error {
		u, err := uc.users.GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		done = performance.CompleteProjectGoal(&u, p, label, now)
		if !done.Transitioned {
			return nil
		}
		return uc.users.SaveUser(ctx, &u)
	})
	if err != nil {
		err = storeError(err)
		return UserOutcome{UserID: userID, Status: OutcomeFailed, Error: err.Error(), err: err}
	}

	o := UserOutcome{UserID: userID, Status: OutcomeCompleted, SkillsAdded: done.SkillsAdded}
	if !done.Transitioned {
		o.Status = OutcomeAlreadyCompleted
	}
	if done.Badge != nil {
		kb := keyed(label, *done.Badge)
		o.Badge = &kb
		uc.notifier.Notify(userID, EventBadgeEarned, kb)
	}
	return o
}

func keyed(label string, b user.Badge) bonus.KeyedBadge {
	return bonus.KeyedBadge{Key: bonus.BadgeKey(label, b), Period: label, Badge: b}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
