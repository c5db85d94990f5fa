package controller

import (
	"dormku_backend/internals/features/dormitory/applications/dto"
	"dormku_backend/internals/features/dormitory/applications/service"
	helper "dormku_backend/internals/helpers"
	"dormku_backend/internals/helpers/apperror"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
)

type ApplicationController struct {
	Svc *service.ApplicationService
}

func NewApplicationController(svc *service.ApplicationService) *ApplicationController {
	return &ApplicationController{Svc: svc}
}

// POST /api/public/applications
func (ctl *ApplicationController) Submit(c *fiber.Ctx) error {
	var req dto.SubmitApplicationRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.Submit(helper.ReqCtx(c), req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "application submitted", out)
}

// GET /api/manager/applications?status=pending
func (ctl *ApplicationController) List(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var q dto.ListApplicationsQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonServiceError(c, apperror.Validation("invalid query", nil))
	}
	if err := helper.ValidateStruct(nil, &q); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.List(helper.ReqCtx(c), p, q)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonList(c, "applications", out)
}

func (ctl *ApplicationController) Get(c *fiber.Ctx) error {
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
	return helper.JsonOK(c, "application", out)
}

func (ctl *ApplicationController) Approve(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.Approve(helper.ReqCtx(c), p, id)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonUpdated(c, "application approved", out)
}

func (ctl *ApplicationController) Reject(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var req dto.RejectApplicationRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.Reject(helper.ReqCtx(c), p, id, req.Reason)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonUpdated(c, "application rejected", out)
}
