package courseRoutes

import (
	"summercamp/auth"
	controllers "summercamp/controllers/course"
	"summercamp/middleware"
	validators "summercamp/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up course moderation routes
func SetupAdminRoutes(app *fiber.App, guards middleware.Guards, h *controllers.Handler) {
	admin := []fiber.Handler{guards.Authenticated, guards.Require(auth.AdminOnly)}

	app.Get("/admin/courses", append(admin, validators.AdminList(), h.AdminList)...)
	app.Patch("/courses/:id/approve", append(admin, validators.CourseID(), h.Approve)...)
}
