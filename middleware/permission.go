package middleware

import (
	"summercamp/auth"

	"github.com/gofiber/fiber/v2"
)

// RequireRole returns a middleware that reads the caller's role from storage
// on every request and rejects roles outside allowed. It must run after
// JWTMiddleware.
func RequireRole(authority *auth.Authority, allowed auth.RoleSet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := Email(c)
		if email == "" {
			return auth.ErrMissingToken
		}

		role, err := authority.Require(c.UserContext(), email, allowed)
		if err != nil {
			return err
		}

		c.Locals(LocalRole, role)
		return c.Next()
	}
}
