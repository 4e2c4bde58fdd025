package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// JsonResponse writes the common {error, message, data} envelope.
func JsonResponse(c *fiber.Ctx, statusCode int, failed bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"error":   failed,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, true, "Validation failed!", errors)
}
