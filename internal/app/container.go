package app

import (
	"context"
	"fmt"
	"time"

	"companygrow/internal/config"
	"companygrow/internal/database/migration"
	dbpostgres "companygrow/internal/database/postgres"
	"companygrow/internal/database/seeder"
	"companygrow/internal/domain/bonus"
	"companygrow/internal/domain/course"
	"companygrow/internal/domain/project"
	"companygrow/internal/domain/user"
	"companygrow/internal/infrastructure/cache"
	"companygrow/internal/infrastructure/payment"
	"companygrow/internal/pkg/jwt"
	"companygrow/internal/pkg/logger"
	"companygrow/internal/repository"
	"companygrow/internal/repository/memory"
	"companygrow/internal/usecase"
	"companygrow/internal/ws"
)

// Container owns every long-lived dependency of the server.
type Container struct {
	Config config.Config
	Log    *logger.Logger

	DB    *dbpostgres.Pool
	Cache *cache.Redis
	Hub   *ws.Hub
	JWT   jwt.Service

	Users    user.Repository
	Courses  course.Repository
	Projects project.Repository

	Auth        usecase.AuthUsecase
	User        usecase.UserUsecase
	Catalog     usecase.CatalogUsecase
	Performance usecase.PerformanceUsecase
	Bonus       usecase.BonusUsecase
	Ledger      usecase.LedgerUsecase
}

func NewContainer(ctx context.Context, cfg config.Config, log *logger.Logger) (*Container, error) {
	if log == nil {
		log = logger.Nop()
	}
	c := &Container{Config: cfg, Log: log}

	if err := c.openStore(ctx); err != nil {
		return nil, err
	}

	if cfg.Store.SeedCatalog {
		if err := (seeder.Runner{Seeders: seeder.Defaults(), Log: log}).Run(ctx, seeder.Target{Courses: c.Courses}); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	c.Cache = cache.NewRedis(cfg.Redis, log)
	c.Hub = ws.NewHub(log)
	c.JWT = jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	c.Auth = usecase.NewAuthUsecase(c.Users, c.JWT, cfg.App.BootstrapAdminEmail)
	c.User = usecase.NewUserUsecase(c.Users)
	c.Catalog = usecase.NewCatalogUsecase(c.Courses, c.Projects)
	c.Ledger = usecase.NewLedgerUsecase(c.Users)
	c.Performance = usecase.NewPerformanceUsecase(c.Users, c.Courses, c.Projects, c.Hub, log,
		usecase.WithBatchConcurrency(cfg.App.CompletionConcurrency))
	c.Bonus = usecase.NewBonusUsecase(c.Users, newGateway(cfg.Stripe, log), c.Cache, c.Hub,
		usecase.BonusURLs{SuccessURL: cfg.Stripe.SuccessURL, CancelURL: cfg.Stripe.CancelURL},
		cfg.Redis.TTL, log)

	return c, nil
}

func (c *Container) openStore(ctx context.Context) error {
	switch c.Config.Store.Driver {
	case config.StoreDriverMemory:
		c.Log.Warn("using in-memory store; data is lost on restart")
		c.Users = memory.NewUserRepository()
		c.Courses = memory.NewCourseRepository()
		c.Projects = memory.NewProjectRepository()
		return nil

	default:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		db, err := dbpostgres.Connect(connectCtx, c.Config.Database, c.Log)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		n, err := migration.Runner{Dir: c.Config.Database.MigrationsDir, Log: c.Log}.Run(ctx, db.SQLDB())
		if err != nil {
			_ = db.Close()
			return fmt.Errorf("migrate: %w", err)
		}
		c.Log.Info("migrations up to date", "applied", n)

		c.DB = db
		c.Users = repository.NewPostgresUserRepository(db)
		c.Courses = repository.NewPostgresCourseRepository(db)
		c.Projects = repository.NewPostgresProjectRepository(db)
		return nil
	}
}

func newGateway(cfg config.StripeConfig, log *logger.Logger) bonus.Gateway {
	if cfg.SecretKey == "" {
		log.Warn("STRIPE_SECRET_KEY not set; bonus checkout is disabled")
		return payment.Unconfigured{}
	}
	return payment.NewStripeGateway(cfg.SecretKey, nil, log)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
