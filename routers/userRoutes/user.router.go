package userProfileRoutes

import (
	"summercamp/auth"
	userController "summercamp/controllers/userControllers"
	"summercamp/middleware"
	userValidator "summercamp/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, guards middleware.Guards, h *userController.Handler, deletePolicy string) {
	app.Get("/instructors", h.Instructors)

	userGroup := app.Group("/users")
	userGroup.Post("/", userValidator.CreateUser(), h.Create)
	userGroup.Get("/", guards.Authenticated, h.List)
	userGroup.Get("/role/:email", guards.Authenticated, userValidator.RoleLookup(), h.RoleLookup)
	userGroup.Patch("/:id", guards.Authenticated, guards.Require(auth.AdminOnly), userValidator.UpdateRole(), h.UpdateRole)
	userGroup.Delete("/:id", guards.Authenticated, guards.Require(userController.DeleteRoles(deletePolicy)), userValidator.UserID(), h.Delete)
}
