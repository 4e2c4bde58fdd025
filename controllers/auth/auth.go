package authController

import (
	"summercamp/auth"
	"summercamp/middleware"
	authValidator "summercamp/validators/auth"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	tokens *auth.TokenService
}

func NewHandler(tokens *auth.TokenService) *Handler {
	return &Handler{tokens: tokens}
}

// IssueToken signs a session token for the posted identity. The client is
// trusted to have authenticated the email with its identity provider.
func (h *Handler) IssueToken(c *fiber.Ctx) error {
	reqData := c.Locals("validatedToken").(*authValidator.TokenRequest)

	token, err := h.tokens.Issue(auth.Claims{Email: reqData.Email, Name: reqData.Name})
	if err != nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusOK, false, "Token issued successfully!", fiber.Map{
		"token": token,
	})
}
