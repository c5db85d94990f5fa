package route

import (
	"dormku_backend/internals/features/dormitory/students/controller"
	"dormku_backend/internals/features/dormitory/students/service"

	"github.com/gofiber/fiber/v2"
)

func StudentManagerRoutes(manager fiber.Router, svc *service.StudentService) {
	ctl := controller.NewStudentController(svc)
	g := manager.Group("/students")

	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Post("/", ctl.Create)
	g.Patch("/:id", ctl.Update)
	g.Put("/:id/password", ctl.SetPassword)
	g.Delete("/:id", ctl.Archive)
}

// StudentSelfRoutes mounts under the student group.
func StudentSelfRoutes(student fiber.Router, svc *service.StudentService) {
	ctl := controller.NewStudentController(svc)

	student.Get("/me", ctl.Me)
	student.Patch("/me/presence", ctl.UpdatePresence)
}
