package controller

import (
	"dormku_backend/internals/features/finance/payments/dto"
	"dormku_backend/internals/features/finance/payments/service"
	helper "dormku_backend/internals/helpers"
	"dormku_backend/internals/helpers/apperror"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
)

type PaymentController struct {
	Svc *service.PaymentService
}

func NewPaymentController(svc *service.PaymentService) *PaymentController {
	return &PaymentController{Svc: svc}
}

// GET /api/cashier/billing
func (ctl *PaymentController) Billing(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.ListBilling(helper.ReqCtx(c), p)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonList(c, "billing", out)
}

// PUT /api/cashier/students/:id/payment-status
func (ctl *PaymentController) SetStatus(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var req dto.SetPaymentStatusRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.SetPaymentStatus(helper.ReqCtx(c), p, id, req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonUpdated(c, "payment status updated", out)
}

// POST /api/cashier/students/:id/checkout
func (ctl *PaymentController) Checkout(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var req dto.CreateCheckoutRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.CreateCheckout(helper.ReqCtx(c), p, id, req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "checkout created", out)
}

// GET /api/cashier/payment-records?student_id=&method=&status=
func (ctl *PaymentController) ListRecords(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	var q dto.ListPaymentRecordsQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonServiceError(c, apperror.Validation("invalid query", nil))
	}
	if q.StudentID, err = helper.ParseUUIDQuery(c, "student_id"); err != nil {
		return helper.JsonServiceError(c, err)
	}
	if err := helper.ValidateStruct(nil, &q); err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.ListRecords(helper.ReqCtx(c), p, q)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonList(c, "payment records", out)
}

func (ctl *PaymentController) GetRecord(c *fiber.Ctx) error {
	p, err := helperAuth.MustPrincipal(c)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	out, err := ctl.Svc.GetRecord(helper.ReqCtx(c), p, id)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "payment record", out)
}

/* =======================================================================
   Webhook Midtrans
======================================================================= */

// POST /api/payments/midtrans/notification
func (ctl *PaymentController) MidtransWebhook(c *fiber.Ctx) error {
	var notif dto.MidtransNotification
	if err := c.BodyParser(&notif); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	out, err := ctl.Svc.HandleNotification(helper.ReqCtx(c), notif)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "webhook processed", out)
}
