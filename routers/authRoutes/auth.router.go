package authRoutes

import (
	authController "summercamp/controllers/auth"
	authValidator "summercamp/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, h *authController.Handler) {
	app.Post("/jwt", authValidator.IssueToken(), h.IssueToken)
}
