package handler

import (
	"strings"

	"companygrow/internal/delivery/http/dto"
	"companygrow/internal/delivery/http/middleware"
	"companygrow/internal/domain/course"
	"companygrow/internal/domain/user"
	"companygrow/internal/pkg/response"
	"companygrow/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CourseHandler struct {
	catalog usecase.CatalogUsecase
	perf    usecase.PerformanceUsecase
}

type moduleRequest struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Duration int    `json:"duration_minutes"`
}

type createCourseRequest struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Difficulty   string          `json:"difficulty"`
	Content      []moduleRequest `json:"content"`
	SkillsGained []string        `json:"skills_gained"`
	BadgeReward  string          `json:"badge_reward"`
}

// subjectRequest lets a reviewer act on behalf of another user.
type subjectRequest struct {
	UserID string `json:"user_id"`
}

func NewCourseHandler(catalog usecase.CatalogUsecase, perf usecase.PerformanceUsecase) *CourseHandler {
	return &CourseHandler{catalog: catalog, perf: perf}
}

func (h *CourseHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Get("/:id", h.Get)
	r.Post("/", middleware.RequireRoles(user.RoleManager, user.RoleAdmin), h.Create)
	r.Post("/:id/enroll", h.Enroll)
	r.Post("/:id/modules/:moduleId/complete", h.CompleteModule)
}

func (h *CourseHandler) Create(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createCourseRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	in := usecase.CourseInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Difficulty:   req.Difficulty,
		SkillsGained: req.SkillsGained,
		BadgeReward:  req.BadgeReward,
	}
	for _, m := range req.Content {
		in.Modules = append(in.Modules, usecase.ModuleInput{ID: m.ID, Title: m.Title, Duration: m.Duration})
	}

	out, err := h.catalog.CreateCourse(c.Context(), p.UserID, in)
	if err != nil {
		return middleware.MapDomainError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, out)
}

func (h *CourseHandler) Get(c fiber.Ctx) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.catalog.GetCourse(c.Context(), id)
	if err != nil {
		return middleware.MapDomainError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *CourseHandler) List(c fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.catalog.ListCourses(c.Context(), limit, offset)
	if err != nil {
		return middleware.MapDomainError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewList[course.Course](out, limit, offset))
}

func (h *CourseHandler) Enroll(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	courseID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req subjectRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return badRequest(err)
		}
	}
	userID, err := subject(p, req.UserID)
	if err != nil {
		return err
	}

	out, err := h.perf.Enroll(c.Context(), userID, courseID)
	if err != nil {
		return middleware.MapDomainError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, out)
}

func (h *CourseHandler) CompleteModule(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	courseID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	moduleID := strings.Clone(c.Params("moduleId"))
	if moduleID == "" {
		return badRequest(nil)
	}

	var req subjectRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return badRequest(err)
		}
	}
	userID, err := subject(p, req.UserID)
	if err != nil {
		return err
	}

	out, err := h.perf.CompleteModule(c.Context(), userID, courseID, moduleID)
	if err != nil {
		return middleware.MapDomainError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
