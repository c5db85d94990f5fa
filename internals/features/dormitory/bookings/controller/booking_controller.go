package controller

import (
	"dormku_backend/internals/features/dormitory/bookings/dto"
	"dormku_backend/internals/features/dormitory/bookings/service"
	helper "dormku_backend/internals/helpers"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
)

/* =======================================================
   CONTROLLER
   ======================================================= */

type BookingController struct {
	Svc *service.BookingService
}

func NewBookingController(svc *service.BookingService) *BookingController {
	return &BookingController{Svc: svc}
}

// GET /api/manager/bookings
func (ctl *BookingController) List(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.List(helper.ReqCtx(c), p)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonList(c, "bookings", out)
}

// GET /api/manager/bookings/:id
func (ctl *BookingController) Get(c *fiber.Ctx) error {
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
	return helper.JsonOK(c, "booking", out)
}

// POST /api/manager/bookings
func (ctl *BookingController) Create(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var req dto.CreateBookingRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.Create(helper.ReqCtx(c), p, req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "booking created", out)
}

// PATCH /api/manager/bookings/:id
func (ctl *BookingController) Update(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var req dto.UpdateBookingRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.Update(helper.ReqCtx(c), p, id, req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonUpdated(c, "booking updated", out)
}

// POST /api/manager/bookings/:id/checkout
func (ctl *BookingController) Checkout(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.Archive(helper.ReqCtx(c), p, id)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "student checked out", out)
}
