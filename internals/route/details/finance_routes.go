package details

import (
	notificationRoute "dormku_backend/internals/features/finance/notifications/route"
	paymentRoute "dormku_backend/internals/features/finance/payments/route"

	"github.com/gofiber/fiber/v2"
)

func FinanceCashierRoutes(r fiber.Router, s *Services) {
	paymentRoute.PaymentCashierRoutes(r, s.Payments)
	notificationRoute.NotificationCashierRoutes(r, s.Notifications)
}

// FinanceWebhookRoutes sits outside every auth group.
func FinanceWebhookRoutes(r fiber.Router, s *Services) {
	paymentRoute.PaymentWebhookRoutes(r, s.Payments)
}
