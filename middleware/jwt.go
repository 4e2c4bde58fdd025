package middleware

import (
	"summercamp/auth"

	"github.com/gofiber/fiber/v2"
)

// Keys for values the auth middlewares put in c.Locals.
const (
	LocalEmail = "email"
	LocalName  = "name"
	LocalRole  = "role"
)

// JWTMiddleware is a middleware to check for valid JWT token in the request
func JWTMiddleware(tokens *auth.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			return err
		}

		// Only the verified email identifies the caller from here on
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalName, claims.Name)
		return c.Next()
	}
}

// Email returns the verified caller email, empty before JWTMiddleware ran.
func Email(c *fiber.Ctx) string {
	email, _ := c.Locals(LocalEmail).(string)
	return email
}

// Role returns the role resolved by RequireRole.
func Role(c *fiber.Ctx) auth.Role {
	role, _ := c.Locals(LocalRole).(auth.Role)
	return role
}
