package handler

import (
	"strings"

	"companygrow/internal/delivery/http/middleware"
	"companygrow/internal/domain/bonus"
	"companygrow/internal/domain/user"
	"companygrow/internal/pkg/response"
	"companygrow/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const HeaderIdempotencyKey = "Idempotency-Key"

type BonusHandler struct {
	uc usecase.BonusUsecase
}

type approveBadgesRequest struct {
	BadgeKeys []string `json:"badge_keys"`
}

type bonusSessionRequest struct {
	EmployeeID   uuid.UUID `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	Badges       []string  `json:"badges"`
	BadgeIDs     []string  `json:"badge_ids"`
	TotalAmount  float64   `json:"total_amount"`
}

func NewBonusHandler(uc usecase.BonusUsecase) *BonusHandler {
	return &BonusHandler{uc: uc}
}

// RegisterUserRoutes mounts the per-user badge routes under /users.
func (h *BonusHandler) RegisterUserRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/:id/badges", h.ListBadges)
	r.Post("/:id/badges/approve", middleware.RequireRoles(user.RoleManager, user.RoleAdmin), h.ApproveBadges)
}

func (h *BonusHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	reviewer := middleware.RequireRoles(user.RoleManager, user.RoleAdmin)

	r.Post("/sessions", reviewer, h.CreateSession)
	r.Get("/sessions/:sessionId", reviewer, h.GetSession)
	r.Post("/approve-and-pay", reviewer, h.ApproveAndPay)
}

func (h *BonusHandler) ListBadges(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	userID, err := subject(p, c.Params("id"))
	if err != nil {
		return err
	}

	onlyUnapproved := fiber.Query[bool](c, "unapproved", false)
	out, err := h.uc.ListBadges(c.Context(), userID, onlyUnapproved)
	if err != nil {
		return middleware.MapDomainError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *BonusHandler) ApproveBadges(c fiber.Ctx) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req approveBadgesRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	n, err := h.uc.ApproveBadges(c.Context(), userID, req.BadgeKeys)
	if err != nil {
		return middleware.MapDomainError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]int{"approved": n})
}

func (h *BonusHandler) CreateSession(c fiber.Ctx) error {
	in, err := h.sessionInput(c)
	if err != nil {
		return err
	}
	out, err := h.uc.CreateBonusSession(c.Context(), in, c.Get(HeaderIdempotencyKey))
	if err != nil {
		return middleware.MapDomainError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, out)
}

func (h *BonusHandler) GetSession(c fiber.Ctx) error {
	out, err := h.uc.GetSessionDetails(c.Context(), c.Params("sessionId"))
	if err != nil {
		return middleware.MapDomainError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *BonusHandler) ApproveAndPay(c fiber.Ctx) error {
	in, err := h.sessionInput(c)
	if err != nil {
		return err
	}
	out, err := h.uc.ApproveAndPay(c.Context(), in, c.Get(HeaderIdempotencyKey))
	if err != nil {
		return middleware.MapDomainError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, out)
}

// sessionInput binds the body; the manager is always the caller.
func (h *BonusHandler) sessionInput(c fiber.Ctx) (bonus.SessionInput, error) {
	p, err := principal(c)
	if err != nil {
		return bonus.SessionInput{}, err
	}
	var req bonusSessionRequest
	if err := c.Bind().Body(&req); err != nil {
		return bonus.SessionInput{}, badRequest(err)
	}
	return bonus.SessionInput{
		EmployeeID:   req.EmployeeID,
		EmployeeName: strings.TrimSpace(req.EmployeeName),
		ManagerID:    p.UserID,
		Badges:       req.Badges,
		BadgeIDs:     req.BadgeIDs,
		TotalAmount:  req.TotalAmount,
	}, nil
}
