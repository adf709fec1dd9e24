package main

import (
	"context"
	"flag"
	"log"
	"time"

	"companygrow/internal/config"
	"companygrow/internal/database/migration"
	dbpostgres "companygrow/internal/database/postgres"
	"companygrow/internal/database/seeder"
	"companygrow/internal/pkg/logger"
	"companygrow/internal/repository"
)

func main() {
	dir := flag.String("dir", "", "migrations directory (defaults to MIGRATIONS_DIR)")
	seed := flag.Bool("seed", false, "create the starter course catalog after migrating")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.App.Environment)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer lg.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, lg)
	if err != nil {
		lg.Fatal("connect postgres", "error", err)
	}
	defer func() {
		_ = db.Close()
	}()

	migDir := cfg.Database.MigrationsDir
	if *dir != "" {
		migDir = *dir
	}
	n, err := migration.Runner{Dir: migDir, Log: lg}.Run(ctx, db.SQLDB())
	if err != nil {
		lg.Fatal("migration failed", "error", err)
	}
	lg.Info("migrations complete", "applied", n, "dir", migDir)

	if !*seed {
		return
	}
	target := seeder.Target{Courses: repository.NewPostgresCourseRepository(db)}
	if err := (seeder.Runner{Seeders: seeder.Defaults(), Log: lg}).Run(ctx, target); err != nil {
		lg.Fatal("seed failed", "error", err)
	}
}
