package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"companygrow/internal/delivery/http/middleware"
	"companygrow/internal/domain"
	"companygrow/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPerformance struct {
	usecase.PerformanceUsecase

	completion usecase.ProjectCompletion
	err        error
}

func (s stubPerformance) CompleteProject(_ context.Context, id uuid.UUID) (usecase.ProjectCompletion, error) {
	out := s.completion
	out.ProjectID = id
	return out, s.err
}

func newProjectApp(perf usecase.PerformanceUsecase, role string) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())
	app.Use(func(c fiber.Ctx) error {
		c.Locals(middleware.CtxUserIDKey, uuid.New())
		c.Locals(middleware.CtxRoleKey, role)
		return c.Next()
	})
	NewProjectHandler(nil, perf).RegisterRoutes(app.Group("/projects"))
	return app
}

func TestProjectHandler_CompletePartialFailure(t *testing.T) {
	ok, bad := uuid.New(), uuid.New()
	perf := stubPerformance{
		completion: usecase.ProjectCompletion{
			Period: "Mar-Apr 2024",
			Outcomes: []usecase.UserOutcome{
				{UserID: ok, Status: usecase.OutcomeCompleted},
				{UserID: bad, Status: usecase.OutcomeFailed, Error: "store unavailable"},
			},
			Failed: 1,
		},
		err: fmt.Errorf("%w: 1 of 2 users failed", domain.ErrPartialBatchFailure),
	}
	app := newProjectApp(perf, "manager")

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/projects/"+uuid.NewString()+"/complete", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMultiStatus, resp.StatusCode)

	var body struct {
		Data usecase.ProjectCompletion `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data.Outcomes, 2)
	assert.Equal(t, usecase.OutcomeFailed, body.Data.Outcomes[1].Status)
	assert.Equal(t, bad, body.Data.Outcomes[1].UserID)
}

func TestProjectHandler_CompleteRequiresReviewer(t *testing.T) {
	app := newProjectApp(stubPerformance{}, "employee")

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/projects/"+uuid.NewString()+"/complete", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestProjectHandler_InvalidID(t *testing.T) {
	app := newProjectApp(stubPerformance{}, "admin")

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/projects/not-a-uuid/complete", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubject(t *testing.T) {
	me := uuid.New()
	other := uuid.New()

	id, err := subject(usecase.Principal{UserID: me, Role: "employee"}, "")
	require.NoError(t, err)
	assert.Equal(t, me, id)

	_, err = subject(usecase.Principal{UserID: me, Role: "employee"}, other.String())
	assert.Error(t, err)

	id, err = subject(usecase.Principal{UserID: me, Role: "manager"}, other.String())
	require.NoError(t, err)
	assert.Equal(t, other, id)
}
