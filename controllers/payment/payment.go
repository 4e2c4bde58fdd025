package paymentController

import (
	"log"

	"summercamp/auth"
	"summercamp/enrollment"
	"summercamp/middleware"
	"summercamp/models"
	"summercamp/payment"
	paymentValidator "summercamp/validators/payment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Handler struct {
	db          *gorm.DB
	authority   *auth.Authority
	gateway     payment.Gateway
	coordinator *enrollment.Coordinator
	currency    string
}

func NewHandler(db *gorm.DB, authority *auth.Authority, gateway payment.Gateway,
	coordinator *enrollment.Coordinator, currency string) *Handler {
	return &Handler{
		db:          db,
		authority:   authority,
		gateway:     gateway,
		coordinator: coordinator,
		currency:    currency,
	}
}

// CreateIntent asks the provider for a payment intent. Nothing is stored.
func (h *Handler) CreateIntent(c *fiber.Ctx) error {
	reqData := c.Locals("validatedIntent").(*paymentValidator.IntentRequest)

	amount, err := payment.ToMinorUnits(reqData.Price)
	if err != nil {
		return err
	}

	intent, err := h.gateway.CreateIntent(c.UserContext(), amount, h.currency)
	if err != nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusOK, false, "Payment intent created successfully!", fiber.Map{
		"clientSecret": intent.ClientSecret,
	})
}

// Save completes a confirmed payment: payment record, seats, pending entries.
func (h *Handler) Save(c *fiber.Ctx) error {
	reqData := c.Locals("validatedPayment").(*paymentValidator.SavePaymentRequest)
	user := middleware.User(c)

	outcome, err := h.coordinator.Complete(c.UserContext(), enrollment.Request{
		TransactionID: reqData.TransactionID,
		UserID:        user.ID,
		PayerEmail:    user.Email,
		Amount:        reqData.Price,
		Currency:      h.currency,
		CourseIDs:     reqData.CourseIDs,
	})
	if err != nil {
		return err
	}

	log.Printf("[PAYMENTS] %s paid %s for courses %v", user.Email, reqData.TransactionID, outcome.EnrolledCourses)
	return middleware.JsonResponse(c, fiber.StatusCreated, false, "Payment completed successfully!", outcome)
}

// History lists payments for ?email=, defaulting to the caller. Only admins
// may read another payer's history.
func (h *Handler) History(c *fiber.Ctx) error {
	reqData := c.Locals("validatedHistory").(*paymentValidator.HistoryQuery)
	caller := middleware.Email(c)

	email := reqData.Email
	if email == "" {
		email = caller
	}
	if email != caller {
		if _, err := h.authority.Require(c.UserContext(), caller, auth.AdminOnly); err != nil {
			return err
		}
	}

	var payments []models.Payment
	err := h.db.WithContext(c.UserContext()).
		Where("payer_email = ?", email).
		Order("paid_at desc").
		Find(&payments).Error
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, false, "Payments fetched successfully!", payments)
}
