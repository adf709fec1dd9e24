package handler

import (
	"companygrow/internal/delivery/http/middleware"
	"companygrow/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

func principal(c fiber.Ctx) (usecase.Principal, error) {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return usecase.Principal{}, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	role, _ := c.Locals(middleware.CtxRoleKey).(string)
	return usecase.Principal{UserID: userID, Role: role}, nil
}

func pathUUID(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+name, nil, err)
	}
	return id, nil
}

// subject resolves the user a request acts on: the caller when raw is empty,
// otherwise raw, which only reviewers may name.
func subject(p usecase.Principal, raw string) (uuid.UUID, error) {
	if raw == "" {
		return p.UserID, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid user_id", nil, err)
	}
	if id != p.UserID && !p.CanReview() {
		return uuid.Nil, middleware.MapDomainError(usecase.ErrForbidden)
	}
	return id, nil
}

func page(c fiber.Ctx) (int, int) {
	limit := fiber.Query[int](c, "limit", defaultPageLimit)
	offset := fiber.Query[int](c, "offset", 0)
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func badRequest(err error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
}
