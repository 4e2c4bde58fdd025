// Package server assembles the HTTP application from its dependencies.
package server

import (
	"summercamp/auth"
	"summercamp/config"
	authController "summercamp/controllers/auth"
	cartController "summercamp/controllers/cart"
	courseController "summercamp/controllers/course"
	paymentController "summercamp/controllers/payment"
	userController "summercamp/controllers/userControllers"
	"summercamp/enrollment"
	"summercamp/middleware"
	"summercamp/payment"
	authRoutes "summercamp/routers/authRoutes"
	cartRoutes "summercamp/routers/cartRoutes"
	courseRoutes "summercamp/routers/courseRoutes"
	paymentRoutes "summercamp/routers/paymentRoutes"
	userProfileRoutes "summercamp/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Deps are the components the HTTP layer is built from.
type Deps struct {
	Config      *config.Config
	DB          *gorm.DB
	Tokens      *auth.TokenService
	Gateway     payment.Gateway
	Coordinator *enrollment.Coordinator
	// DisableAccessLog silences the request logger, mostly for tests.
	DisableAccessLog bool
}

func New(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "summer-camp",
		ErrorHandler: middleware.ErrorHandler,
		UnescapePath: true,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.Config.CORSOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",  // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	if !deps.DisableAccessLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Summer camp server is running")
	})

	authority := auth.NewAuthority(deps.DB)
	guards := middleware.NewGuards(deps.Tokens, authority, deps.DB)
	courses := courseController.NewHandler(deps.DB)

	authRoutes.SetupAuthRoutes(app, authController.NewHandler(deps.Tokens))
	userProfileRoutes.SetupUserRoutes(app, guards, userController.NewHandler(deps.DB, authority), deps.Config.UserDeletePolicy)
	courseRoutes.SetupCourseRoutes(app, guards, courses)
	courseRoutes.SetupAdminRoutes(app, guards, courses)
	cartRoutes.SetupCartRoutes(app, guards, cartController.NewHandler(deps.DB))
	paymentRoutes.SetupPaymentRoutes(app, guards, paymentController.NewHandler(
		deps.DB, authority, deps.Gateway, deps.Coordinator, deps.Config.Currency,
	))

	return app
}
