package cartValidator

import (
	"strings"

	"summercamp/validators"

	"github.com/gofiber/fiber/v2"
)

type AddToCartRequest struct {
	CourseID uint `json:"courseId" validate:"required,gt=0"`
}

type CartQuery struct {
	Email string `query:"email" validate:"required,email"`
}

func AddToCart() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AddToCartRequest)
		if err := validators.Body(c, reqData); err != nil {
			return err
		}
		c.Locals("validatedCartItem", reqData)
		return c.Next()
	}
}

// ListCart requires the email query parameter
func ListCart() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CartQuery)
		if err := validators.Query(c, reqData); err != nil {
			return err
		}
		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))

		c.Locals("validatedCartQuery", reqData)
		return c.Next()
	}
}

// ItemID reads the :id route parameter of a cart or pending enrollment entry
func ItemID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := validators.ParamID(c, "id")
		if err != nil {
			return err
		}
		c.Locals("itemID", id)
		return c.Next()
	}
}
