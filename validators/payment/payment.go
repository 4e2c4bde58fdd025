package paymentValidator

import (
	"strings"

	"summercamp/validators"

	"github.com/gofiber/fiber/v2"
)

type IntentRequest struct {
	Price float64 `json:"price" validate:"gt=0"`
}

// SavePaymentRequest is the confirmed payment posted by the client after the
// provider accepted the charge. The payer is taken from the token.
type SavePaymentRequest struct {
	TransactionID string  `json:"transactionId" validate:"required,max=255"`
	Price         float64 `json:"price" validate:"gt=0"`
	CourseIDs     []uint  `json:"courseIds" validate:"required,min=1,dive,gt=0"`
}

type HistoryQuery struct {
	Email string `query:"email" validate:"omitempty,email"`
}

func CreateIntent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(IntentRequest)
		if err := validators.Body(c, reqData); err != nil {
			return err
		}
		c.Locals("validatedIntent", reqData)
		return c.Next()
	}
}

func SavePayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SavePaymentRequest)
		if err := validators.Body(c, reqData); err != nil {
			return err
		}
		reqData.TransactionID = strings.TrimSpace(reqData.TransactionID)

		c.Locals("validatedPayment", reqData)
		return c.Next()
	}
}

func History() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(HistoryQuery)
		if err := validators.Query(c, reqData); err != nil {
			return err
		}
		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))

		c.Locals("validatedHistory", reqData)
		return c.Next()
	}
}
