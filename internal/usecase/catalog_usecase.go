package usecase

import (
	"context"
	"strings"
	"time"

	"companygrow/internal/domain"
	"companygrow/internal/domain/course"
	"companygrow/internal/domain/project"
	"companygrow/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrTitleRequired   = domain.NewError(domain.ErrValidation, "title is required")
	ErrNameRequired    = domain.NewError(domain.ErrValidation, "name is required")
	ErrDuplicateModule = domain.NewError(domain.ErrValidation, "module ids must be unique")
)

type CatalogUsecase interface {
	CreateCourse(ctx context.Context, by uuid.UUID, in CourseInput) (course.Course, error)
	GetCourse(ctx context.Context, id uuid.UUID) (course.Course, error)
	ListCourses(ctx context.Context, limit, offset int) ([]course.Course, error)

	CreateProject(ctx context.Context, by uuid.UUID, in ProjectInput) (project.Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (project.Project, error)
	ListProjects(ctx context.Context, limit, offset int) ([]project.Project, error)
	UpdateProjectStatus(ctx context.Context, id uuid.UUID, status string) (project.Project, error)
}

type ModuleInput struct {
	ID       string
	Title    string
	Duration int
}

type CourseInput struct {
	Title        string
	Description  string
	Category     string
	Difficulty   string
	Modules      []ModuleInput
	SkillsGained []string
	BadgeReward  string
}

type ProjectInput struct {
	Name           string
	Description    string
	SkillsRequired []string
	SkillsGained   []string
	Status         string
	BadgeReward    string
	Deadline       *time.Time
}

type Catalog struct {
	courses  course.Repository
	projects project.Repository
	now      func() time.Time
}

func NewCatalogUsecase(courses course.Repository, projects project.Repository) *Catalog {
	return &Catalog{courses: courses, projects: projects, now: time.Now}
}

func (uc *Catalog) CreateCourse(ctx context.Context, by uuid.UUID, in CourseInput) (course.Course, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return course.Course{}, ErrTitleRequired
	}
	reward, err := optionalTier(in.BadgeReward)
	if err != nil {
		return course.Course{}, err
	}

	modules := make([]course.Module, 0, len(in.Modules))
	seen := map[string]bool{}
	for _, m := range in.Modules {
		id := strings.TrimSpace(m.ID)
		if id == "" {
			id = uuid.NewString()
		}
		if seen[id] {
			return course.Course{}, ErrDuplicateModule
		}
		seen[id] = true
		modules = append(modules, course.Module{ID: id, Title: strings.TrimSpace(m.Title), Duration: m.Duration})
	}

	now := uc.now().UTC()
	c := course.Course{
		ID:            uuid.New(),
		Title:         title,
		Description:   strings.TrimSpace(in.Description),
		Category:      strings.TrimSpace(in.Category),
		Difficulty:    strings.TrimSpace(in.Difficulty),
		Content:       modules,
		EnrolledUsers: []course.Enrollment{},
		SkillsGained:  trimSkills(in.SkillsGained),
		BadgeReward:   reward,
		CreatedBy:     by,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.courses.Create(ctx, c); err != nil {
		return course.Course{}, storeError(err)
	}
	return uc.GetCourse(ctx, c.ID)
}

func (uc *Catalog) GetCourse(ctx context.Context, id uuid.UUID) (course.Course, error) {
	c, err := uc.courses.GetByID(ctx, id)
	if err != nil {
		return course.Course{}, storeError(err)
	}
	return c, nil
}

func (uc *Catalog) ListCourses(ctx context.Context, limit, offset int) ([]course.Course, error) {
	out, err := uc.courses.List(ctx, limit, offset)
	if err != nil {
		return nil, storeError(err)
	}
	return out, nil
}

func (uc *Catalog) CreateProject(ctx context.Context, by uuid.UUID, in ProjectInput) (project.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return project.Project{}, ErrNameRequired
	}
	reward, err := optionalTier(in.BadgeReward)
	if err != nil {
		return project.Project{}, err
	}
	status := project.StatusPlanning
	if s := strings.TrimSpace(in.Status); s != "" {
		if status, err = project.ParseStatus(s); err != nil {
			return project.Project{}, err
		}
	}

	now := uc.now().UTC()
	p := project.Project{
		ID:             uuid.New(),
		Name:           name,
		Description:    strings.TrimSpace(in.Description),
		AssignedUsers:  []uuid.UUID{},
		SkillsRequired: trimSkills(in.SkillsRequired),
		SkillsGained:   trimSkills(in.SkillsGained),
		Status:         status,
		BadgeReward:    reward,
		ManagedBy:      by,
		Deadline:       in.Deadline,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.projects.Create(ctx, p); err != nil {
		return project.Project{}, storeError(err)
	}
	return uc.GetProject(ctx, p.ID)
}

func (uc *Catalog) GetProject(ctx context.Context, id uuid.UUID) (project.Project, error) {
	p, err := uc.projects.GetByID(ctx, id)
	if err != nil {
		return project.Project{}, storeError(err)
	}
	return p, nil
}

func (uc *Catalog) ListProjects(ctx context.Context, limit, offset int) ([]project.Project, error) {
	out, err := uc.projects.List(ctx, limit, offset)
	if err != nil {
		return nil, storeError(err)
	}
	return out, nil
}

// UpdateProjectStatus changes the lifecycle status. Completion goes through
// PerformanceUsecase.CompleteProject so that goals and badges follow.
func (uc *Catalog) UpdateProjectStatus(ctx context.Context, id uuid.UUID, status string) (project.Project, error) {
	st, err := project.ParseStatus(strings.TrimSpace(status))
	if err != nil {
		return project.Project{}, err
	}
	if st == project.StatusCompleted {
		return project.Project{}, domain.NewError(domain.ErrValidation, "use the project completion endpoint to complete a project")
	}

	var p project.Project
	err = retryStale(ctx, func() error {
		var err error
		if p, err = uc.projects.GetByID(ctx, id); err != nil {
			return err
		}
		if p.Status == project.StatusCompleted {
			return domain.NewError(domain.ErrConflict, "project already completed")
		}
		if p.Status == st {
			return nil
		}
		p.Status = st
		return uc.projects.Save(ctx, &p)
	})
	if err != nil {
		return project.Project{}, storeError(err)
	}
	return p, nil
}

func optionalTier(s string) (*user.BadgeTier, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := user.ParseBadgeTier(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func trimSkills(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
