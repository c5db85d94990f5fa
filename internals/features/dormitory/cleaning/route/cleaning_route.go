package route

import (
	"dormku_backend/internals/features/dormitory/cleaning/controller"
	"dormku_backend/internals/features/dormitory/cleaning/service"

	"github.com/gofiber/fiber/v2"
)

func CleaningManagerRoutes(manager fiber.Router, svc *service.CleaningService) {
	ctl := controller.NewCleaningController(svc)

	sch := manager.Group("/cleaning-schedules")
	sch.Get("/", ctl.ListSchedules)
	sch.Post("/", ctl.CreateSchedule)
	sch.Patch("/:id", ctl.UpdateSchedule)
	sch.Delete("/:id", ctl.DeleteSchedule)

	rep := manager.Group("/cleaning-reports")
	rep.Get("/", ctl.ListReports)
	rep.Post("/:id/resolve", ctl.ResolveReport)
}

func CleaningStudentRoutes(student fiber.Router, svc *service.CleaningService) {
	ctl := controller.NewCleaningController(svc)

	student.Get("/me/cleaning-schedules", ctl.MySchedules)
	student.Get("/cleaning-reports", ctl.MyReports)
	student.Post("/cleaning-reports", ctl.FileReport)
}
