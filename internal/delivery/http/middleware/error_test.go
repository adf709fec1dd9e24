package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"companygrow/internal/domain"
	"companygrow/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMiddleware_StatusMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", domain.NewError(domain.ErrNotFound, "course not found"), http.StatusNotFound, "course not found"},
		{"conflict", fmt.Errorf("%w: again", domain.ErrStaleWrite), http.StatusConflict, "stale write: again"},
		{"validation", domain.NewError(domain.ErrValidation, "bad tier"), http.StatusBadRequest, "bad tier"},
		{"forbidden", domain.NewError(domain.ErrForbidden, "nope"), http.StatusForbidden, "nope"},
		{"store", fmt.Errorf("%w: dial tcp", domain.ErrStoreUnavailable), http.StatusServiceUnavailable, response.MessageStoreUnavailable},
		{"upstream", fmt.Errorf("%w: stripe", domain.ErrUpstreamUnavailable), http.StatusServiceUnavailable, response.MessageUpstreamUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, response.MessageInternalServerError},
		{"masked 502", NewAppError(http.StatusBadGateway, "leaky detail", nil, nil), http.StatusInternalServerError, response.MessageInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(NewErrorMiddleware(nil).Middleware())
			app.Get("/", func(c fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			var body response.SemanticResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.status, body.Status)
			assert.Equal(t, tc.message, body.Message)
		})
	}
}

func TestErrorMiddleware_MultiStatusKeepsData(t *testing.T) {
	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())
	app.Get("/", func(c fiber.Ctx) error {
		return NewAppError(http.StatusMultiStatus, "1 of 2 users failed", map[string]int{"failed": 1}, domain.ErrPartialBatchFailure)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Status int            `json:"status"`
		Data   map[string]int `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusMultiStatus, resp.StatusCode)
	assert.Equal(t, 1, body.Data["failed"])
}

func TestErrorMiddleware_RecoversPanic(t *testing.T) {
	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())
	app.Get("/", func(c fiber.Ctx) error { panic("kaboom") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("bearer abc ")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = BearerToken("Basic abc")
	assert.False(t, ok)
	_, ok = BearerToken("Bearer ")
	assert.False(t, ok)
}
