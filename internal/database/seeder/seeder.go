package seeder

import (
	"context"

	"companygrow/internal/domain/course"
)

// Target is what seeders write through. Seeding goes via repositories so it
// works on either store driver.
type Target struct {
	Courses course.Repository
}

type Seeder interface {
	Name() string
	Run(ctx context.Context, t Target) error
}

func Defaults() []Seeder {
	return []Seeder{CatalogSeeder{}}
}
