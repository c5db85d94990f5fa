package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Every response body is one of these two envelopes.

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type ErrorResponse struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	ErrorCode string              `json:"error_code,omitempty"`
	Errors    map[string][]string `json:"errors,omitempty"`
}

var errorCodes = map[int]string{
	fiber.StatusBadRequest:          "BAD_REQUEST",
	fiber.StatusUnauthorized:        "UNAUTHORIZED",
	fiber.StatusForbidden:           "FORBIDDEN",
	fiber.StatusNotFound:            "NOT_FOUND",
	fiber.StatusConflict:            "CONFLICT",
	fiber.StatusUnprocessableEntity: "VALIDATION_ERROR",
	fiber.StatusTooManyRequests:     "TOO_MANY_REQUESTS",
}

func errorCode(status int) string {
	if code, ok := errorCodes[status]; ok {
		return code
	}
	if status >= 500 {
		return "INTERNAL_ERROR"
	}
	return "ERROR"
}

/* ========== errors ========== */

func JsonError(c *fiber.Ctx, status int, message string) error {
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	if status >= 500 && strings.TrimSpace(message) == "" {
		message = fiber.ErrInternalServerError.Message
	}
	return c.Status(status).JSON(ErrorResponse{
		Message:   message,
		ErrorCode: errorCode(status),
	})
}

// JsonValidationError is always 422 with per-field messages keyed by JSON name.
func JsonValidationError(c *fiber.Ctx, message string, fields map[string][]string) error {
	if strings.TrimSpace(message) == "" {
		message = "validation failed"
	}
	if fields == nil {
		fields = map[string][]string{}
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
		Message:   message,
		ErrorCode: errorCode(fiber.StatusUnprocessableEntity),
		Errors:    fields,
	})
}

/* ========== success ========== */

func respond(c *fiber.Ctx, status int, message, fallback string, data any) error {
	if strings.TrimSpace(message) == "" {
		message = fallback
	}
	return c.Status(status).JSON(SuccessResponse{Success: true, Message: message, Data: data})
}

// JsonList: lists are returned whole, never paginated.
func JsonList(c *fiber.Ctx, message string, data any) error {
	return respond(c, fiber.StatusOK, message, "ok", data)
}

func JsonOK(c *fiber.Ctx, message string, data any) error {
	return respond(c, fiber.StatusOK, message, "ok", data)
}

func JsonCreated(c *fiber.Ctx, message string, data any) error {
	return respond(c, fiber.StatusCreated, message, "created", data)
}

func JsonUpdated(c *fiber.Ctx, message string, data any) error {
	return respond(c, fiber.StatusOK, message, "updated", data)
}

func JsonDeleted(c *fiber.Ctx, message string, data any) error {
	return respond(c, fiber.StatusOK, message, "deleted", data)
}
