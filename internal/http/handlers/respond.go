package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	applog "shopapi/internal/log"
	"shopapi/internal/repos"
	"shopapi/internal/services"
	"shopapi/internal/validate"
)

const genericError = "Something went wrong. Please try again."

func ok(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"status": "success", "data": data})
}

// parseBody decodes the JSON body into dst; malformed bodies are a 400.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"reason": "malformed_body"})
		return validate.Invalid("malformed request body")
	}
	return nil
}

// statusFor maps an error onto an HTTP status and a message safe to return.
func statusFor(err error) (int, string) {
	var ve *validate.Error
	var fe *fiber.Error
	switch {
	case errors.As(err, &ve):
		return fiber.StatusBadRequest, ve.Message
	case errors.Is(err, services.ErrInvalidInput):
		return fiber.StatusBadRequest, services.ErrInvalidInput.Error()
	case errors.Is(err, services.ErrEmptyCart):
		return fiber.StatusBadRequest, "Your cart is empty"
	case errors.Is(err, services.ErrOutOfStock):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrBadCreds):
		return fiber.StatusUnauthorized, services.ErrBadCreds.Error()
	case errors.Is(err, services.ErrUnauthenticated):
		return fiber.StatusUnauthorized, "You are not logged in. Please log in to get access."
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden, services.ErrForbidden.Error()
	case errors.Is(err, repos.ErrNotFound):
		return fiber.StatusNotFound, repos.ErrNotFound.Error()
	case errors.Is(err, repos.ErrDuplicate):
		return fiber.StatusConflict, "resource already exists"
	case errors.Is(err, repos.ErrInUse):
		return fiber.StatusConflict, repos.ErrInUse.Error()
	case errors.Is(err, services.ErrCartChanged):
		return fiber.StatusConflict, services.ErrCartChanged.Error()
	case errors.As(err, &fe):
		if fe.Code >= fiber.StatusInternalServerError {
			return fe.Code, genericError
		}
		return fe.Code, fe.Message
	}
	return fiber.StatusInternalServerError, genericError
}

// ErrorHandler is the single place where errors become responses.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code, msg := statusFor(err)
	switch {
	case code >= fiber.StatusInternalServerError:
		applog.Error(c, "server.error", err, nil)
	case code == fiber.StatusUnauthorized || code == fiber.StatusForbidden:
		applog.Security(c, "access.denied", map[string]any{"reason": err.Error()})
	}
	status := "fail"
	if code >= fiber.StatusInternalServerError {
		status = "error"
	}
	if msg == "" {
		msg = http.StatusText(code)
	}
	return c.Status(code).JSON(fiber.Map{"status": status, "message": msg})
}
