package cartRoutes

import (
	cartController "summercamp/controllers/cart"
	"summercamp/middleware"
	cartValidator "summercamp/validators/cart"

	"github.com/gofiber/fiber/v2"
)

func SetupCartRoutes(app *fiber.App, guards middleware.Guards, h *cartController.Handler) {
	cartGroup := app.Group("/cart", guards.Authenticated)
	cartGroup.Get("/", cartValidator.ListCart(), h.List)
	cartGroup.Post("/", guards.CurrentUser, cartValidator.AddToCart(), h.Add)
	cartGroup.Delete("/:id", guards.CurrentUser, cartValidator.ItemID(), h.Remove)

	enrolledGroup := app.Group("/enrolled", guards.Authenticated, guards.CurrentUser)
	enrolledGroup.Get("/", h.Enrolled)
	enrolledGroup.Put("/:id", cartValidator.ItemID(), h.AddPendingEnrollment)
	enrolledGroup.Delete("/:id", cartValidator.ItemID(), h.RemovePendingEnrollment)
}
