package seeder

import (
	"context"
	"fmt"

	"companygrow/internal/pkg/logger"
)

type Runner struct {
	Seeders []Seeder
	Log     *logger.Logger
}

func (r Runner) Run(ctx context.Context, t Target) error {
	if t.Courses == nil {
		return fmt.Errorf("seeder: nil course repository")
	}
	log := r.Log
	if log == nil {
		log = logger.Nop()
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, t); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		log.Info("seeder finished", "seeder", s.Name())
	}
	return nil
}
