package details

import (
	authRoute "dormku_backend/internals/features/users/auth/route"
	userRoute "dormku_backend/internals/features/users/users/route"

	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(r fiber.Router, s *Services, loginLimit, protect fiber.Handler) {
	authRoute.AuthRoutes(r, s.Auth, loginLimit, protect)
}

func UserAdminRoutes(r fiber.Router, s *Services) {
	userRoute.UserAdminRoutes(r, s.Users)
}
