package auth

import (
	"dormku_backend/internals/constants"
	helper "dormku_backend/internals/helpers"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
)

// RoleMiddlewareWithCustomError lets the request through when the principal holds one of allowedRoles.
// Student tokens only ever match the student role and staff tokens never do.
func RoleMiddlewareWithCustomError(allowedRoles []string, customForbiddenMessage string) fiber.Handler {
	forbidden := customForbiddenMessage
	if forbidden == "" {
		forbidden = "Forbidden: you are not authorized to access this resource"
	}
	return func(c *fiber.Ctx) error {
		p, ok := helperAuth.PrincipalFrom(c)
		if !ok {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized: missing role information")
		}

		if p.IsStudent() == (p.Role == constants.RoleStudent) && p.HasRole(allowedRoles...) {
			return c.Next()
		}

		return helper.JsonError(c, fiber.StatusForbidden, forbidden)
	}
}

func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	return RoleMiddlewareWithCustomError(roles, customMessage)
}

// OnlyRolesSlice is OnlyRoles for the grouped role slices in constants.
func OnlyRolesSlice(message string, allowedRoles []string) fiber.Handler {
	return RoleMiddlewareWithCustomError(allowedRoles, message)
}
