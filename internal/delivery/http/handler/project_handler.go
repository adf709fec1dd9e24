package handler

import (
	"errors"
	"time"

	"companygrow/internal/delivery/http/dto"
	"companygrow/internal/delivery/http/middleware"
	"companygrow/internal/domain"
	"companygrow/internal/domain/project"
	"companygrow/internal/domain/user"
	"companygrow/internal/pkg/response"
	"companygrow/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ProjectHandler struct {
	catalog usecase.CatalogUsecase
	perf    usecase.PerformanceUsecase
}

type createProjectRequest struct {
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	SkillsRequired []string   `json:"skills_required"`
	SkillsGained   []string   `json:"skills_gained"`
	Status         string     `json:"status"`
	BadgeReward    string     `json:"badge_reward"`
	Deadline       *time.Time `json:"deadline"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type assignmentRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

func NewProjectHandler(catalog usecase.CatalogUsecase, perf usecase.PerformanceUsecase) *ProjectHandler {
	return &ProjectHandler{catalog: catalog, perf: perf}
}

func (h *ProjectHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	reviewer := middleware.RequireRoles(user.RoleManager, user.RoleAdmin)

	r.Get("/", h.List)
	r.Get("/:id", h.Get)
	r.Post("/", reviewer, h.Create)
	r.Patch("/:id/status", reviewer, h.UpdateStatus)
	r.Post("/:id/assign", reviewer, h.Assign)
	r.Post("/:id/deassign", reviewer, h.Deassign)
	r.Post("/:id/complete", reviewer, h.Complete)
}

func (h *ProjectHandler) Create(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createProjectRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	out, err := h.catalog.CreateProject(c.Context(), p.UserID, usecase.ProjectInput{
		Name:           req.Name,
		Description:    req.Description,
		SkillsRequired: req.SkillsRequired,
		SkillsGained:   req.SkillsGained,
		Status:         req.Status,
		BadgeReward:    req.BadgeReward,
		Deadline:       req.Deadline,
	})
	if err != nil {
		return middleware.MapDomainError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, out)
}

func (h *ProjectHandler) Get(c fiber.Ctx) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.catalog.GetProject(c.Context(), id)
	if err != nil {
		return middleware.MapDomainError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *ProjectHandler) List(c fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.catalog.ListProjects(c.Context(), limit, offset)
	if err != nil {
		return middleware.MapDomainError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewList[project.Project](out, limit, offset))
}

func (h *ProjectHandler) UpdateStatus(c fiber.Ctx) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req statusRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	out, err := h.catalog.UpdateProjectStatus(c.Context(), id, req.Status)
	if err != nil {
		return middleware.MapDomainError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *ProjectHandler) Assign(c fiber.Ctx) error {
	projectID, userID, err := h.assignment(c)
	if err != nil {
		return err
	}
	out, err := h.perf.Assign(c.Context(), userID, projectID)
	if err != nil {
		return middleware.MapDomainError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *ProjectHandler) Deassign(c fiber.Ctx) error {
	projectID, userID, err := h.assignment(c)
	if err != nil {
		return err
	}
	out, err := h.perf.Deassign(c.Context(), userID, projectID)
	if err != nil {
		return middleware.MapDomainError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *ProjectHandler) assignment(c fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	projectID, err := pathUUID(c, "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	var req assignmentRequest
	if err := c.Bind().Body(&req); err != nil {
		return uuid.Nil, uuid.Nil, badRequest(err)
	}
	if req.UserID == uuid.Nil {
		return uuid.Nil, uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "user_id is required", nil, nil)
	}
	return projectID, req.UserID, nil
}

// Complete answers 207 with every per-user outcome when some users failed.
func (h *ProjectHandler) Complete(c fiber.Ctx) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	out, err := h.perf.CompleteProject(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPartialBatchFailure) {
			return middleware.NewAppError(fiber.StatusMultiStatus, err.Error(), out, err)
		}
		return middleware.MapDomainError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
