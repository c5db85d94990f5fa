package controller

import (
	"context"
	"time"

	"dormku_backend/internals/features/system/backups/service"
	helper "dormku_backend/internals/helpers"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
)

// dumps and restores outlive the per-request timeout
const longRunning = 30 * time.Minute

type BackupController struct {
	Svc *service.BackupService
}

func NewBackupController(svc *service.BackupService) *BackupController {
	return &BackupController{Svc: svc}
}

func (ctl *BackupController) List(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.List(helper.ReqCtx(c), p)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonList(c, "backups", out)
}

func (ctl *BackupController) Create(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), longRunning)
	defer cancel()
	out, err := ctl.Svc.Create(ctx, p)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "backup created", out)
}

func (ctl *BackupController) Download(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	name := c.Params("name")
	full, err := ctl.Svc.Path(p, name)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return c.Download(full, name)
}

func (ctl *BackupController) Delete(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	name := c.Params("name")
	if err := ctl.Svc.Delete(helper.ReqCtx(c), p, name); err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonDeleted(c, "backup deleted", fiber.Map{"name": name})
}

func (ctl *BackupController) Restore(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), longRunning)
	defer cancel()
	out, err := ctl.Svc.Restore(ctx, p, c.Params("name"))
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonUpdated(c, "backup restored", out)
}
