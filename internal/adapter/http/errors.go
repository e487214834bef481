package http

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"cv-builder/internal/domain"
)

// StatusFor maps an error returned by a handler onto an HTTP status.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case domain.IsValidation(err):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotConfigured):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, domain.ErrUpstream):
		return fiber.StatusBadGateway
	case errors.Is(err, domain.ErrUnsupportedFile):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrBanned), errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler renders every handler error as {"error", "code"}, plus
// "field" for validation errors. Internal errors are logged and hidden.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := StatusFor(err)
	body := fiber.Map{"error": err.Error(), "code": code}

	var ve *domain.ValidationError
	if errors.As(err, &ve) && ve.Field != "" {
		body["field"] = ve.Field
	}
	if code == fiber.StatusInternalServerError {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		body["error"] = "internal server error"
	}
	return c.Status(code).JSON(body)
}
