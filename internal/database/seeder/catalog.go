package seeder

import (
	"context"
	"errors"

	"companygrow/internal/domain/course"
	"companygrow/internal/domain/user"

	"github.com/google/uuid"
)

var catalogNamespace = uuid.MustParse("6f1c1e52-3d0b-4a7e-9c55-2b8f4a0d9e11")

// CatalogID is the stable id of a starter course, so reseeding never duplicates.
func CatalogID(slug string) uuid.UUID {
	return uuid.NewSHA1(catalogNamespace, []byte("course/"+slug))
}

type starterCourse struct {
	slug       string
	title      string
	desc       string
	category   string
	difficulty string
	modules    []string
	skills     []string
	reward     user.BadgeTier
}

var starterCatalog = []starterCourse{
	{
		slug:       "go-fundamentals",
		title:      "Go Fundamentals",
		desc:       "Types, interfaces, errors and the standard toolchain.",
		category:   "engineering",
		difficulty: "beginner",
		modules:    []string{"Tour of the language", "Errors and interfaces", "Testing"},
		skills:     []string{"Go", "Testing"},
		reward:     user.BadgeGreen,
	},
	{
		slug:       "postgres-for-developers",
		title:      "Postgres for Application Developers",
		desc:       "Schema design, indexes, JSONB and reading query plans.",
		category:   "engineering",
		difficulty: "intermediate",
		modules:    []string{"Schema design", "Indexing", "JSONB", "EXPLAIN"},
		skills:     []string{"PostgreSQL", "SQL"},
		reward:     user.BadgeBlue,
	},
	{
		slug:       "leading-code-reviews",
		title:      "Leading Code Reviews",
		desc:       "Giving actionable feedback and keeping reviews moving.",
		category:   "leadership",
		difficulty: "intermediate",
		modules:    []string{"What to look for", "Writing feedback"},
		skills:     []string{"Code Review", "Mentoring"},
		reward:     user.BadgePurple,
	},
}

// CatalogSeeder creates the starter courses that do not exist yet.
type CatalogSeeder struct{}

func (CatalogSeeder) Name() string { return "catalog" }

func (CatalogSeeder) Run(ctx context.Context, t Target) error {
	for _, sc := range starterCatalog {
		id := CatalogID(sc.slug)
		_, err := t.Courses.GetByID(ctx, id)
		if err == nil {
			continue
		}
		if !errors.Is(err, course.ErrNotFound) {
			return err
		}

		reward := sc.reward
		c := course.Course{
			ID:            id,
			Title:         sc.title,
			Description:   sc.desc,
			Category:      sc.category,
			Difficulty:    sc.difficulty,
			SkillsGained:  sc.skills,
			BadgeReward:   &reward,
			EnrolledUsers: []course.Enrollment{},
		}
		for i, title := range sc.modules {
			c.Content = append(c.Content, course.Module{
				ID:       uuid.NewSHA1(id, []byte{byte(i)}).String(),
				Title:    title,
				Duration: 30,
			})
		}
		if err := t.Courses.Create(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
