package controller

import (
	"dormku_backend/internals/features/dormitory/students/dto"
	"dormku_backend/internals/features/dormitory/students/service"
	helper "dormku_backend/internals/helpers"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
)

type StudentController struct {
	Svc *service.StudentService
}

func NewStudentController(svc *service.StudentService) *StudentController {
	return &StudentController{Svc: svc}
}

/* ===== manager ===== */

func (ctl *StudentController) List(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.List(helper.ReqCtx(c), p)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonList(c, "students", out)
}

func (ctl *StudentController) Get(c *fiber.Ctx) error {
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
	return helper.JsonOK(c, "student", out)
}

func (ctl *StudentController) Create(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var req dto.CreateStudentRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.Create(helper.ReqCtx(c), p, req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "student created", out)
}

func (ctl *StudentController) Update(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var req dto.UpdateStudentRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.Update(helper.ReqCtx(c), p, id, req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonUpdated(c, "student updated", out)
}

// PUT /api/manager/students/:id/password
func (ctl *StudentController) SetPassword(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var req dto.SetPasswordRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonServiceError(c, err)
	}
	if err := ctl.Svc.SetPassword(helper.ReqCtx(c), p, id, req.Password); err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonUpdated(c, "password set", fiber.Map{"student_id": id})
}

func (ctl *StudentController) Archive(c *fiber.Ctx) error {
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
	return helper.JsonDeleted(c, "student archived", fiber.Map{"student_id": id})
}

/* ===== student (self) ===== */

func (ctl *StudentController) Me(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.Me(helper.ReqCtx(c), p)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "profile", out)
}

func (ctl *StudentController) UpdatePresence(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var req dto.UpdatePresenceRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.UpdatePresence(helper.ReqCtx(c), p, req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonUpdated(c, "presence updated", out)
}
