package helper

import (
	"errors"
	"log"

	"dormku_backend/internals/helpers/apperror"

	"github.com/gofiber/fiber/v2"
)

// JsonServiceError maps a service error onto the JSON error envelope.
func JsonServiceError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}

	ae, ok := apperror.As(err)
	if !ok {
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
		return JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	switch ae.Kind {
	case apperror.KindValidation:
		if len(ae.Fields) > 0 {
			return JsonValidationError(c, ae.Message, ae.Fields)
		}
		return JsonError(c, fiber.StatusBadRequest, ae.Message)
	case apperror.KindUnauthorized:
		return JsonError(c, fiber.StatusUnauthorized, ae.Message)
	case apperror.KindForbidden:
		return JsonError(c, fiber.StatusForbidden, ae.Message)
	case apperror.KindNotFound:
		return JsonError(c, fiber.StatusNotFound, ae.Message)
	case apperror.KindConflict:
		return JsonError(c, fiber.StatusConflict, ae.Message)
	default:
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), ae)
		return JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

// ParseBody decodes and validates a JSON body in one step.
func ParseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperror.Validation("invalid request body", nil)
	}
	return ValidateStruct(nil, dst)
}
