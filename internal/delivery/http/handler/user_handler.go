package handler

import (
	"errors"

	"companygrow/internal/delivery/http/dto"
	"companygrow/internal/delivery/http/middleware"
	"companygrow/internal/domain/user"
	"companygrow/internal/pkg/response"
	"companygrow/internal/usecase"
	useruc "companygrow/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	uc usecase.UserUsecase
}

type updateProfileRequest struct {
	Name       *string `json:"name"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
	Password   *string `json:"password"`
}

func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpdateMe)
	r.Get("/", middleware.RequireRoles(user.RoleManager, user.RoleAdmin), h.List)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	usr, err := h.uc.GetMe(c.Context(), p.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
		}
		return middleware.MapDomainError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserProfileResponse(usr))
}

func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	if req.Name == nil && req.Department == nil && req.Position == nil && req.Password == nil {
		return badRequest(nil)
	}

	usr, err := h.uc.UpdateMe(c.Context(), p.UserID, useruc.UpdateMeInput{
		Name:       req.Name,
		Department: req.Department,
		Position:   req.Position,
		Password:   req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, useruc.ErrInvalidInput):
			return badRequest(err)
		case errors.Is(err, user.ErrNotFound):
			return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
		default:
			return middleware.MapDomainError(err)
		}
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserProfileResponse(usr))
}

func (h *UserHandler) List(c fiber.Ctx) error {
	limit, offset := page(c)
	users, err := h.uc.ListUsers(c.Context(), limit, offset)
	if err != nil {
		return middleware.MapDomainError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewList(dto.NewUserProfileList(users), limit, offset))
}
