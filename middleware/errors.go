package middleware

import (
	"errors"
	"log"

	"summercamp/auth"
	"summercamp/enrollment"
	"summercamp/payment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ErrNotFound is returned by handlers for missing resources.
var ErrNotFound = errors.New("resource not found")

// ValidationError carries per-field messages for a rejected request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }

// ErrorHandler maps handler errors to the JSON envelope. It is installed as
// fiber.Config.ErrorHandler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		validation *ValidationError
		oversell   *enrollment.OversellError
		duplicate  *enrollment.DuplicatePaymentError
		partial    *enrollment.PartialFailure
		rejected   *enrollment.RejectedAfterPayment
		gateway    *payment.GatewayError
		fiberErr   *fiber.Error
	)

	switch {
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
		return JsonResponse(c, fiber.StatusUnauthorized, true, err.Error(), nil)
	case errors.Is(err, auth.ErrForbidden):
		return JsonResponse(c, fiber.StatusForbidden, true, "You do not have permission to access this resource!", nil)
	case errors.As(err, &validation):
		return ValidationErrorResponse(c, validation.Fields)
	case errors.As(err, &partial):
		log.Printf("[PAYMENTS] partial failure on %s: %v", c.Path(), err)
		return JsonResponse(c, fiber.StatusMultiStatus, true, err.Error(), partial.Outcome)
	case errors.As(err, &rejected):
		// The payment row exists, so its outcome goes back with the conflict.
		data := fiber.Map{"outcome": rejected.Outcome}
		if errors.As(err, &oversell) {
			data["courseId"] = oversell.CourseID
		}
		return JsonResponse(c, fiber.StatusConflict, true, err.Error(), data)
	case errors.As(err, &duplicate):
		return JsonResponse(c, fiber.StatusConflict, true, err.Error(), fiber.Map{"payment": duplicate.Payment})
	case errors.As(err, &oversell):
		return JsonResponse(c, fiber.StatusConflict, true, err.Error(), fiber.Map{"courseId": oversell.CourseID})
	case errors.Is(err, enrollment.ErrAlreadyEnrolled), errors.Is(err, enrollment.ErrPaymentInProgress):
		return JsonResponse(c, fiber.StatusConflict, true, err.Error(), nil)
	case errors.Is(err, enrollment.ErrNoCourses), errors.Is(err, enrollment.ErrMissingTransaction),
		errors.Is(err, payment.ErrInvalidAmount), errors.Is(err, enrollment.ErrAmountTooLow):
		return JsonResponse(c, fiber.StatusBadRequest, true, err.Error(), nil)
	case errors.As(err, &gateway):
		log.Printf("[PAYMENTS] gateway failure: %v", err)
		return JsonResponse(c, fiber.StatusBadGateway, true, gateway.Error(), nil)
	case errors.Is(err, ErrNotFound), errors.Is(err, enrollment.ErrCourseUnavailable),
		errors.Is(err, gorm.ErrRecordNotFound):
		return JsonResponse(c, fiber.StatusNotFound, true, err.Error(), nil)
	case errors.As(err, &fiberErr):
		return JsonResponse(c, fiberErr.Code, true, fiberErr.Message, nil)
	}

	log.Printf("[HTTP] %s %s failed: %v", c.Method(), c.Path(), err)
	return JsonResponse(c, fiber.StatusInternalServerError, true, "Internal server error!", nil)
}
