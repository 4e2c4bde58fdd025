package courseRoutes

import (
	"summercamp/auth"
	controllers "summercamp/controllers/course"
	"summercamp/middleware"
	validators "summercamp/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the public catalog and instructor routes
func SetupCourseRoutes(app *fiber.App, guards middleware.Guards, h *controllers.Handler) {
	app.Get("/reviews", h.Reviews)

	courseGroup := app.Group("/courses")
	courseGroup.Get("/", h.ListApproved)
	courseGroup.Post("/", guards.Authenticated, guards.Require(auth.AdminOrInstructor), guards.CurrentUser,
		validators.CreateCourse(), h.Create)
}
