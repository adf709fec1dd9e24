package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"companygrow/internal/config"
	"companygrow/internal/delivery/http/handler"
	"companygrow/internal/delivery/http/middleware"
	"companygrow/internal/delivery/http/routes"
	v1 "companygrow/internal/delivery/http/routes/v1"
	"companygrow/internal/pkg/logger"
	"companygrow/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	WS        *http.Server
	Container *Container
}

// New builds the HTTP app over an existing container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName:   c.Config.App.AppName,
		Immutable: true,
	})

	registerGlobalMiddleware(f, c.Log)
	registerRoutes(f, c)

	a := &App{Fiber: f, Container: c}
	if port := strings.TrimSpace(c.Config.App.WSPort); port != "" {
		if addr, err := ListenAddr(port); err == nil {
			a.WS = ws.NewServer(addr, ws.NewHandler(c.Hub, c.JWT, c.Log))
		}
	}
	return a
}

// Bootstrap wires the container and the app. The returned cleanup releases
// the store and cache.
func Bootstrap(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, log *logger.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	var health *handler.HealthHandler
	switch {
	case c.DB != nil:
		health = handler.NewHealthHandler(c.DB, c.Cache)
	default:
		health = handler.NewHealthHandler(nil, c.Cache)
	}

	routes.NewRegistry(health, v1.Handlers{
		Auth:        handler.NewAuthHandler(c.Auth),
		User:        handler.NewUserHandler(c.User),
		Course:      handler.NewCourseHandler(c.Catalog, c.Performance),
		Project:     handler.NewProjectHandler(c.Catalog, c.Performance),
		Bonus:       handler.NewBonusHandler(c.Bonus),
		Ledger:      handler.NewLedgerHandler(c.Ledger),
		RequireAuth: middleware.NewAuthMiddleware(c.JWT).Middleware(),
	}).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
