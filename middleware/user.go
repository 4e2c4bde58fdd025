package middleware

import (
	"errors"
	"fmt"

	"summercamp/auth"
	"summercamp/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const LocalUser = "user"

// CurrentUser loads the account behind the verified email. It must run after
// JWTMiddleware.
func CurrentUser(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := Email(c)
		if email == "" {
			return auth.ErrMissingToken
		}

		var user models.User
		err := db.WithContext(c.UserContext()).Where("email = ?", email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		if err != nil {
			return err
		}

		c.Locals(LocalUser, &user)
		return c.Next()
	}
}

// User returns the account loaded by CurrentUser.
func User(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(LocalUser).(*models.User)
	return user
}

// Guards bundles the auth middlewares the route setups share.
type Guards struct {
	Authenticated fiber.Handler
	CurrentUser   fiber.Handler
	Authority     *auth.Authority
}

func NewGuards(tokens *auth.TokenService, authority *auth.Authority, db *gorm.DB) Guards {
	return Guards{
		Authenticated: JWTMiddleware(tokens),
		CurrentUser:   CurrentUser(db),
		Authority:     authority,
	}
}

// Require gates a route on the caller's stored role.
func (g Guards) Require(allowed auth.RoleSet) fiber.Handler {
	return RequireRole(g.Authority, allowed)
}
