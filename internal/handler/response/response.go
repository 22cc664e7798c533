package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/facultydesk/consultation-core/internal/consult"
)

// Response — единый конверт ответа API.
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func Success(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Data:    data,
	})
}

func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Data:    data,
	})
}

func Error(c *fiber.Ctx, statusCode int, code, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error: &ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, "BAD_REQUEST", message)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Unauthorized access"
	}
	return Error(c, fiber.StatusUnauthorized, "UNAUTHORIZED", message)
}

// DomainError переводит доменные ошибки ядра в HTTP-ответы.
// Все они восстановимы вызывающим; процесса они не роняют.
func DomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, consult.ErrValidation):
		return Error(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	case errors.Is(err, consult.ErrNotFound):
		return Error(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, consult.ErrNotAllowed):
		return Error(c, fiber.StatusForbidden, "FORBIDDEN", "actor is not permitted for the target resource")
	case errors.Is(err, consult.ErrCapacityExceeded):
		return Error(c, fiber.StatusConflict, "CAPACITY_EXCEEDED", "slot full, choose another")
	case errors.Is(err, consult.ErrInvalidTransition), errors.Is(err, consult.ErrInvalidState):
		return Error(c, fiber.StatusUnprocessableEntity, "INVALID_STATE", "action not allowed in current state")
	case errors.Is(err, consult.ErrConflict):
		return Error(c, fiber.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, consult.ErrUnavailable):
		return Error(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "store temporarily unavailable, try again")
	default:
		return Error(c, fiber.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
