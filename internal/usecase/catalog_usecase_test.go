package usecase

import (
	"context"
	"testing"

	"companygrow/internal/domain"
	"companygrow/internal/domain/project"
	"companygrow/internal/domain/user"
	"companygrow/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_CreateCourse(t *testing.T) {
	uc := NewCatalogUsecase(memory.NewCourseRepository(), memory.NewProjectRepository())
	by := uuid.New()

	c, err := uc.CreateCourse(context.Background(), by, CourseInput{
		Title:        "  Go Fundamentals ",
		Modules:      []ModuleInput{{ID: "m1", Title: "Basics"}, {Title: "Generated"}},
		SkillsGained: []string{" Go ", ""},
		BadgeReward:  "Blue",
	})
	require.NoError(t, err)

	assert.Equal(t, "Go Fundamentals", c.Title)
	assert.Equal(t, []string{"Go"}, c.SkillsGained)
	require.Len(t, c.Content, 2)
	assert.Equal(t, "m1", c.Content[0].ID)
	assert.NotEmpty(t, c.Content[1].ID)
	require.NotNil(t, c.BadgeReward)
	assert.Equal(t, user.BadgeBlue, *c.BadgeReward)
	assert.Equal(t, by, c.CreatedBy)
	assert.Equal(t, int64(1), c.Version)
}

func TestCatalog_CreateCourseValidation(t *testing.T) {
	uc := NewCatalogUsecase(memory.NewCourseRepository(), memory.NewProjectRepository())
	ctx := context.Background()

	_, err := uc.CreateCourse(ctx, uuid.New(), CourseInput{Title: " "})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = uc.CreateCourse(ctx, uuid.New(), CourseInput{Title: "x", BadgeReward: "Gold"})
	assert.ErrorIs(t, err, user.ErrInvalidBadgeTier)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.CreateCourse(ctx, uuid.New(), CourseInput{Title: "x", Modules: []ModuleInput{{ID: "a"}, {ID: "a"}}})
	assert.ErrorIs(t, err, ErrDuplicateModule)
}

func TestCatalog_ProjectStatus(t *testing.T) {
	uc := NewCatalogUsecase(memory.NewCourseRepository(), memory.NewProjectRepository())
	ctx := context.Background()

	p, err := uc.CreateProject(ctx, uuid.New(), ProjectInput{Name: "Apollo"})
	require.NoError(t, err)
	assert.Equal(t, project.StatusPlanning, p.Status)

	p, err = uc.UpdateProjectStatus(ctx, p.ID, "on-hold")
	require.NoError(t, err)
	assert.Equal(t, project.StatusOnHold, p.Status)

	_, err = uc.UpdateProjectStatus(ctx, p.ID, "completed")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.UpdateProjectStatus(ctx, p.ID, "archived")
	assert.ErrorIs(t, err, project.ErrInvalidStatus)

	_, err = uc.UpdateProjectStatus(ctx, uuid.New(), "planning")
	assert.ErrorIs(t, err, project.ErrNotFound)
}

func TestCatalog_ListProjects(t *testing.T) {
	uc := NewCatalogUsecase(memory.NewCourseRepository(), memory.NewProjectRepository())
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		_, err := uc.CreateProject(ctx, uuid.New(), ProjectInput{Name: name})
		require.NoError(t, err)
	}

	out, err := uc.ListProjects(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}
