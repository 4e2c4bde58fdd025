package paymentRoutes

import (
	paymentController "summercamp/controllers/payment"
	"summercamp/middleware"
	paymentValidator "summercamp/validators/payment"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App, guards middleware.Guards, h *paymentController.Handler) {
	app.Post("/create-payment-intent", guards.Authenticated, paymentValidator.CreateIntent(), h.CreateIntent)

	paymentGroup := app.Group("/payments", guards.Authenticated)
	paymentGroup.Post("/", guards.CurrentUser, paymentValidator.SavePayment(), h.Save)
	paymentGroup.Get("/", paymentValidator.History(), h.History)
}
