package handler

import (
	"context"
	"time"

	"companygrow/internal/domain"
	"companygrow/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	redis Pinger
	now   func() time.Time
}

// NewHealthHandler takes nil for a dependency that is not in use; it is then
// reported healthy.
func NewHealthHandler(db, redis Pinger) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, now: time.Now}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Check)
}

// Check answers 503 only when the store is down; Redis is optional.
func (h *HealthHandler) Check(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	st := domain.HealthStatus{
		DatabaseHealthy: ping(ctx, h.db),
		RedisHealthy:    ping(ctx, h.redis),
		ServerTime:      h.now().UTC(),
	}
	if !st.DatabaseHealthy {
		return response.Error(c, fiber.StatusServiceUnavailable, response.MessageStoreUnavailable, st)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, st)
}

func ping(ctx context.Context, p Pinger) bool {
	if p == nil {
		return true
	}
	return p.Ping(ctx) == nil
}
