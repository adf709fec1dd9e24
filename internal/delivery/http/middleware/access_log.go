package middleware

import (
	"time"

	"companygrow/internal/pkg/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

type AccessLogMiddleware struct {
	log *logger.Logger
}

func NewAccessLogMiddleware(log *logger.Logger) *AccessLogMiddleware {
	if log == nil {
		log = logger.Nop()
	}
	return &AccessLogMiddleware{log: log.With("component", "http")}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)

		err := c.Next()

		m.log.Info("http access",
			"rid", rid,
			"ip", c.IP(),
			"method", c.Method(),
			"path", c.OriginalURL(),
			"status", c.Response().StatusCode(),
			"latency", time.Since(start),
			"req_bytes", c.Request().Header.ContentLength(),
			"resp_bytes", len(c.Response().Body()),
			"ua", c.Get("User-Agent"),
		)
		return err
	}
}
