package v1

import (
	"companygrow/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterUsers(r fiber.Router, userHandler *handler.UserHandler, bonusHandler *handler.BonusHandler, ledgerHandler *handler.LedgerHandler) {
	if r == nil {
		return
	}

	if userHandler != nil {
		userHandler.RegisterRoutes(r)
	}
	if bonusHandler != nil {
		bonusHandler.RegisterUserRoutes(r)
	}
	if ledgerHandler != nil {
		ledgerHandler.RegisterRoutes(r)
	}
}
