package authValidator

import (
	"strings"

	"summercamp/validators"

	"github.com/gofiber/fiber/v2"
)

type TokenRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"omitempty,max=120"`
}

// IssueToken validator middleware
func IssueToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(TokenRequest)
		if err := validators.Body(c, reqData); err != nil {
			return err
		}
		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))

		c.Locals("validatedToken", reqData)
		return c.Next()
	}
}
