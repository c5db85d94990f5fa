package controller

import (
	"dormku_backend/internals/features/dormitory/cleaning/dto"
	"dormku_backend/internals/features/dormitory/cleaning/service"
	helper "dormku_backend/internals/helpers"
	"dormku_backend/internals/helpers/apperror"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
)

type CleaningController struct {
	Svc *service.CleaningService
}

func NewCleaningController(svc *service.CleaningService) *CleaningController {
	return &CleaningController{Svc: svc}
}

func parseQuery(c *fiber.Ctx, dst any) error {
	if err := c.QueryParser(dst); err != nil {
		return apperror.Validation("invalid query", nil)
	}
	return helper.ValidateStruct(nil, dst)
}

/* ==== schedules (manager) ==== */

func (ctl *CleaningController) ListSchedules(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var q dto.ListSchedulesQuery
	if err := parseQuery(c, &q); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.ListSchedules(helper.ReqCtx(c), p, q)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonList(c, "cleaning schedules", out)
}

func (ctl *CleaningController) CreateSchedule(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var req dto.CreateScheduleRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.CreateSchedule(helper.ReqCtx(c), p, req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "cleaning schedule created", out)
}

func (ctl *CleaningController) UpdateSchedule(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var req dto.UpdateScheduleRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.UpdateSchedule(helper.ReqCtx(c), p, id, req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonUpdated(c, "cleaning schedule updated", out)
}

func (ctl *CleaningController) DeleteSchedule(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	if err := ctl.Svc.DeleteSchedule(helper.ReqCtx(c), p, id); err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonDeleted(c, "cleaning schedule deleted", fiber.Map{"cleaning_schedule_id": id})
}

/* ==== reports (manager) ==== */

func (ctl *CleaningController) ListReports(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var q dto.ListReportsQuery
	if err := parseQuery(c, &q); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.ListReports(helper.ReqCtx(c), p, q)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonList(c, "cleaning reports", out)
}

// POST /api/manager/cleaning-reports/:id/resolve
func (ctl *CleaningController) ResolveReport(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var req dto.ResolveReportRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.ResolveReport(helper.ReqCtx(c), p, id, req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonUpdated(c, "cleaning report "+req.Status, out)
}

/* ==== student ==== */

func (ctl *CleaningController) MySchedules(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.StudentSchedules(helper.ReqCtx(c), p)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonList(c, "cleaning schedules", out)
}

func (ctl *CleaningController) MyReports(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.MyReports(helper.ReqCtx(c), p)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonList(c, "cleaning reports", out)
}

func (ctl *CleaningController) FileReport(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var req dto.FileReportRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.FileReport(helper.ReqCtx(c), p, req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "cleaning report filed", out)
}
