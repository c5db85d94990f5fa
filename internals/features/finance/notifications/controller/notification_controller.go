package controller

import (
	"dormku_backend/internals/features/finance/notifications/dto"
	"dormku_backend/internals/features/finance/notifications/service"
	helper "dormku_backend/internals/helpers"
	"dormku_backend/internals/helpers/apperror"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
)

type NotificationController struct {
	Svc *service.NotificationService
}

func NewNotificationController(svc *service.NotificationService) *NotificationController {
	return &NotificationController{Svc: svc}
}

// GET /api/cashier/notifications?unread=true
func (ctl *NotificationController) List(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var q dto.ListNotificationsQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonServiceError(c, apperror.Field("unread", "unread must be true or false"))
	}
	out, err := ctl.Svc.List(helper.ReqCtx(c), p, q)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonList(c, "notifications", out)
}

// POST /api/cashier/notifications/:id/read
func (ctl *NotificationController) MarkRead(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.MarkRead(helper.ReqCtx(c), p, id)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonUpdated(c, "notification read", out)
}

// POST /api/cashier/notifications/read-all
func (ctl *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.MarkAllRead(helper.ReqCtx(c), p)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonUpdated(c, "notifications read", out)
}
