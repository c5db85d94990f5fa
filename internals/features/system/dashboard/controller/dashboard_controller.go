package controller

import (
	"dormku_backend/internals/features/system/dashboard/service"
	helper "dormku_backend/internals/helpers"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
)

type DashboardController struct {
	Svc *service.DashboardService
}

func NewDashboardController(svc *service.DashboardService) *DashboardController {
	return &DashboardController{Svc: svc}
}

// GET /api/dashboard: admins get every dormitory, managers and cashiers their own.
func (ctl *DashboardController) Get(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	if p.IsAdmin() {
		out, err := ctl.Svc.Admin(helper.ReqCtx(c), p)
		if err != nil {
			return helper.JsonServiceError(c, err)
		}
		return helper.JsonOK(c, "dashboard", out)
	}
	out, err := ctl.Svc.Tenant(helper.ReqCtx(c), p)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "dashboard", out)
}
