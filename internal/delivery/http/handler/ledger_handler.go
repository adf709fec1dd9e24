package handler

import (
	"net/url"

	"companygrow/internal/delivery/http/middleware"
	"companygrow/internal/pkg/response"
	"companygrow/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type LedgerHandler struct {
	uc usecase.LedgerUsecase
}

type reviewRequest struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

func NewLedgerHandler(uc usecase.LedgerUsecase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// RegisterRoutes mounts under /users.
func (h *LedgerHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/:id/performance", h.Report)
	r.Put("/:id/performance/:period/review", h.Review)
}

func (h *LedgerHandler) Report(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	out, err := h.uc.Report(c.Context(), p, userID, c.Query("period"))
	if err != nil {
		return middleware.MapDomainError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *LedgerHandler) Review(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	label, err := url.PathUnescape(c.Params("period"))
	if err != nil {
		return badRequest(err)
	}

	var req reviewRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	out, err := h.uc.Review(c.Context(), p, userID, label, req.Rating, req.Feedback)
	if err != nil {
		return middleware.MapDomainError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
