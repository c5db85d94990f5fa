package controller

import (
	"dormku_backend/internals/features/dormitory/tenants/dto"
	"dormku_backend/internals/features/dormitory/tenants/service"
	helper "dormku_backend/internals/helpers"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
)

type TenantController struct {
	Svc *service.TenantService
}

func NewTenantController(svc *service.TenantService) *TenantController {
	return &TenantController{Svc: svc}
}

// GET /api/public/dormitories
func (ctl *TenantController) PublicList(c *fiber.Ctx) error {
	out, err := ctl.Svc.PublicList(helper.ReqCtx(c))
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	c.Set("Cache-Control", "public, max-age=60")
	return helper.JsonList(c, "dormitories", out)
}

func (ctl *TenantController) List(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.List(helper.ReqCtx(c), p)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonList(c, "dormitories", out)
}

func (ctl *TenantController) Get(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.Get(helper.ReqCtx(c), p, id)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "dormitory", out)
}

func (ctl *TenantController) Create(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var req dto.CreateTenantRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.Create(helper.ReqCtx(c), p, req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "dormitory created", out)
}

func (ctl *TenantController) Update(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var req dto.UpdateTenantRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.Update(helper.ReqCtx(c), p, id, req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonUpdated(c, "dormitory updated", out)
}

func (ctl *TenantController) Archive(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	if err := ctl.Svc.Archive(helper.ReqCtx(c), p, id); err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonDeleted(c, "dormitory archived", fiber.Map{"tenant_id": id})
}
