package details

import (
	applicationRoute "dormku_backend/internals/features/dormitory/applications/route"
	bookingRoute "dormku_backend/internals/features/dormitory/bookings/route"
	cleaningRoute "dormku_backend/internals/features/dormitory/cleaning/route"
	roomRoute "dormku_backend/internals/features/dormitory/rooms/route"
	studentRoute "dormku_backend/internals/features/dormitory/students/route"
	tenantRoute "dormku_backend/internals/features/dormitory/tenants/route"

	"github.com/gofiber/fiber/v2"
)

func DormitoryPublicRoutes(r fiber.Router, s *Services, applyLimit fiber.Handler) {
	tenantRoute.TenantPublicRoutes(r, s.Tenants)
	applicationRoute.ApplicationPublicRoutes(r, s.Applications, applyLimit)
}

func DormitoryAdminRoutes(r fiber.Router, s *Services) {
	tenantRoute.TenantAdminRoutes(r, s.Tenants)
}

func DormitoryManagerRoutes(r fiber.Router, s *Services) {
	roomRoute.RoomManagerRoutes(r, s.Rooms)
	studentRoute.StudentManagerRoutes(r, s.Students)
	bookingRoute.BookingManagerRoutes(r, s.Bookings)
	applicationRoute.ApplicationManagerRoutes(r, s.Applications)
	cleaningRoute.CleaningManagerRoutes(r, s.Cleaning)
}

func DormitoryStudentRoutes(r fiber.Router, s *Services) {
	studentRoute.StudentSelfRoutes(r, s.Students)
	cleaningRoute.CleaningStudentRoutes(r, s.Cleaning)
}
