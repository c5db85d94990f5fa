package route

import (
	"dormku_backend/internals/features/users/auth/controller"
	"dormku_backend/internals/features/users/auth/service"

	"github.com/gofiber/fiber/v2"
)

// AuthRoutes mounts /api/auth. loginLimit guards the credential endpoints, protect resolves the principal.
func AuthRoutes(auth fiber.Router, svc *service.AuthService, loginLimit, protect fiber.Handler) {
	ctl := controller.NewAuthController(svc)

	auth.Post("/login", loginLimit, ctl.Login)
	auth.Post("/student/login", loginLimit, ctl.StudentLogin)
	auth.Post("/admin-setup", loginLimit, ctl.AdminSetup)
	auth.Post("/logout", ctl.Logout)
	auth.Get("/me", protect, ctl.Me)
}
