package controller

import (
	"dormku_backend/internals/features/system/archives/dto"
	"dormku_backend/internals/features/system/archives/service"
	helper "dormku_backend/internals/helpers"
	"dormku_backend/internals/helpers/apperror"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ArchiveController struct {
	Svc *service.ArchiveService
}

func NewArchiveController(svc *service.ArchiveService) *ArchiveController {
	return &ArchiveController{Svc: svc}
}

func (ctl *ArchiveController) target(c *fiber.Ctx) (helperAuth.Principal, service.Entity, uuid.UUID, error) {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return p, "", uuid.Nil, err
	}
	e, err := service.ParseEntity(c.Params("entity"))
	if err != nil {
		return p, "", uuid.Nil, err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return p, "", uuid.Nil, err
	}
	return p, e, id, nil
}

// GET /api/archives?entity=rooms
func (ctl *ArchiveController) List(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var q dto.ListArchivedQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonServiceError(c, apperror.Validation("invalid query", nil))
	}
	out, err := ctl.Svc.List(helper.ReqCtx(c), p, q.Entity)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonList(c, "archived items", out)
}

// POST /api/archives/:entity/:id/archive
func (ctl *ArchiveController) Archive(c *fiber.Ctx) error {
	p, e, id, err := ctl.target(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.Archive(helper.ReqCtx(c), p, e, id)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	if out == nil {
		out = fiber.Map{"entity": e, "id": id}
	}
	return helper.JsonUpdated(c, "archived", out)
}

// POST /api/archives/:entity/:id/restore
func (ctl *ArchiveController) Restore(c *fiber.Ctx) error {
	p, e, id, err := ctl.target(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.Restore(helper.ReqCtx(c), p, e, id)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	if out == nil {
		out = fiber.Map{"entity": e, "id": id}
	}
	return helper.JsonUpdated(c, "restored", out)
}

// DELETE /api/archives/:entity/:id
func (ctl *ArchiveController) ForceDelete(c *fiber.Ctx) error {
	p, e, id, err := ctl.target(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	if err := ctl.Svc.ForceDelete(helper.ReqCtx(c), p, e, id); err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonDeleted(c, "permanently deleted", fiber.Map{"entity": e, "id": id})
}
