package route

import (
	"dormku_backend/internals/features/finance/payments/controller"
	"dormku_backend/internals/features/finance/payments/service"

	"github.com/gofiber/fiber/v2"
)

// PaymentCashierRoutes: cashier and manager of the tenant.
func PaymentCashierRoutes(cashier fiber.Router, svc *service.PaymentService) {
	ctl := controller.NewPaymentController(svc)

	cashier.Get("/billing", ctl.Billing)
	cashier.Put("/students/:id/payment-status", ctl.SetStatus)
	cashier.Post("/students/:id/checkout", ctl.Checkout)

	rec := cashier.Group("/payment-records")
	rec.Get("/", ctl.ListRecords)
	rec.Get("/:id", ctl.GetRecord)
}

// PaymentWebhookRoutes is public; the notification signature is the authentication.
func PaymentWebhookRoutes(api fiber.Router, svc *service.PaymentService) {
	ctl := controller.NewPaymentController(svc)
	api.Post("/payments/midtrans/notification", ctl.MidtransWebhook)
}
