package middleware

import (
	"errors"
	"fmt"

	"companygrow/internal/domain"
	"companygrow/internal/pkg/logger"
	"companygrow/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data interface{}, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

// MapDomainError translates a usecase error by its category. The message of the
// specific error is kept for client-facing categories; store and upstream
// failures get a fixed message.
func MapDomainError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, domain.ErrPartialBatchFailure):
		return NewAppError(fiber.StatusMultiStatus, err.Error(), nil, err)
	case errors.Is(err, domain.ErrValidation):
		return NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, domain.ErrForbidden):
		return NewAppError(fiber.StatusForbidden, err.Error(), nil, err)
	case errors.Is(err, domain.ErrNotFound):
		return NewAppError(fiber.StatusNotFound, err.Error(), nil, err)
	case errors.Is(err, domain.ErrConflict):
		return NewAppError(fiber.StatusConflict, err.Error(), nil, err)
	case errors.Is(err, domain.ErrStoreUnavailable):
		return NewAppError(fiber.StatusServiceUnavailable, response.MessageStoreUnavailable, nil, err)
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return NewAppError(fiber.StatusServiceUnavailable, response.MessageUpstreamUnavailable, nil, err)
	default:
		return NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

type ErrorMiddleware struct {
	log *logger.Logger
}

func NewErrorMiddleware(log *logger.Logger) *ErrorMiddleware {
	if log == nil {
		log = logger.Nop()
	}
	return &ErrorMiddleware{log: log}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.log.Error("panic recovered", "panic", fmt.Sprint(r), "path", c.Path())
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := normalizeError(err)
		if status >= fiber.StatusInternalServerError {
			m.log.Error("request failed", "method", c.Method(), "path", c.Path(), "status", status, "error", err)
		} else {
			m.log.Debug("request rejected", "method", c.Method(), "path", c.Path(), "status", status, "error", err)
		}
		return response.Error(c, status, msg, data)
	}
}

func normalizeError(err error) (int, string, interface{}) {
	if err == nil {
		return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.StatusCode <= 0 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}

		status := appErr.StatusCode
		msg := appErr.Message
		if msg == "" {
			msg = defaultMessageForStatus(status)
		}

		// 503 is a retryable outage and is reported as such; anything else
		// above 500 is masked.
		if status == fiber.StatusServiceUnavailable {
			return status, msg, nil
		}
		if status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}
		return status, msg, appErr.Data
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}
		msg := fiberErr.Message
		if msg == "" {
			msg = defaultMessageForStatus(status)
		}
		return status, msg, nil
	}

	mapped := MapDomainError(err)
	return normalizeError(mapped)
}

func defaultMessageForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return response.MessageBadRequest
	case fiber.StatusUnauthorized:
		return response.MessageUnauthorized
	case fiber.StatusForbidden:
		return response.MessageForbidden
	case fiber.StatusNotFound:
		return response.MessageNotFound
	case fiber.StatusConflict:
		return response.MessageConflict
	case fiber.StatusUnprocessableEntity:
		return response.MessageUnprocessableEntity
	default:
		if status >= 500 {
			return response.MessageInternalServerError
		}
		return response.MessageError
	}
}
