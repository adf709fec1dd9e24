package v1

import (
	"companygrow/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Course  *handler.CourseHandler
	Project *handler.ProjectHandler
	Bonus   *handler.BonusHandler
	Ledger  *handler.LedgerHandler

	// RequireAuth guards everything except /auth.
	RequireAuth fiber.Handler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}

	protected := r.Group("", h.RequireAuth)

	RegisterUsers(protected.Group("/users"), h.User, h.Bonus, h.Ledger)
	if h.Course != nil {
		h.Course.RegisterRoutes(protected.Group("/courses"))
	}
	if h.Project != nil {
		h.Project.RegisterRoutes(protected.Group("/projects"))
	}
	if h.Bonus != nil {
		h.Bonus.RegisterRoutes(protected.Group("/bonus"))
	}
}
