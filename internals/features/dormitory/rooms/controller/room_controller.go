package controller

import (
	"dormku_backend/internals/features/dormitory/rooms/dto"
	"dormku_backend/internals/features/dormitory/rooms/service"
	helper "dormku_backend/internals/helpers"
	"dormku_backend/internals/helpers/apperror"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
)

type RoomController struct {
	Svc *service.RoomService
}

func NewRoomController(svc *service.RoomService) *RoomController {
	return &RoomController{Svc: svc}
}

// GET /api/manager/rooms?status=available
func (ctl *RoomController) List(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var q dto.ListRoomsQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonServiceError(c, apperror.Validation("invalid query", nil))
	}
	out, err := ctl.Svc.List(helper.ReqCtx(c), p, q)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonList(c, "rooms", out)
}

func (ctl *RoomController) Get(c *fiber.Ctx) error {
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
	return helper.JsonOK(c, "room", out)
}

func (ctl *RoomController) Create(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var req dto.CreateRoomRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.Create(helper.ReqCtx(c), p, req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "room created", out)
}

func (ctl *RoomController) Update(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var req dto.UpdateRoomRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.Update(helper.ReqCtx(c), p, id, req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonUpdated(c, "room updated", out)
}

// DELETE /api/manager/rooms/:id archives; permanent delete goes through /api/archives.
func (ctl *RoomController) Archive(c *fiber.Ctx) error {
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
	return helper.JsonDeleted(c, "room archived", fiber.Map{"room_id": id})
}
