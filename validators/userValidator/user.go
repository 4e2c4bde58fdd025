package userValidator

import (
	"strings"

	"summercamp/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"omitempty,max=120"`
	PhotoURL string `json:"photoUrl" validate:"omitempty,url"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=learner instructor admin"`
}

// CreateUser validator middleware
func CreateUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateUserRequest)
		if err := validators.Body(c, reqData); err != nil {
			return err
		}
		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))
		reqData.Name = strings.TrimSpace(reqData.Name)

		c.Locals("validatedUser", reqData)
		return c.Next()
	}
}

// UpdateRole validates both the target id and the requested role
func UpdateRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := validators.ParamID(c, "id")
		if err != nil {
			return err
		}

		reqData := new(UpdateRoleRequest)
		if err := validators.Body(c, reqData); err != nil {
			return err
		}

		c.Locals("userID", userID)
		c.Locals("validatedRole", reqData)
		return c.Next()
	}
}

func UserID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := validators.ParamID(c, "id")
		if err != nil {
			return err
		}
		c.Locals("userID", userID)
		return c.Next()
	}
}

// RoleLookup checks the :email route parameter.
func RoleLookup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &struct {
			Email string `json:"email" validate:"required,email"`
		}{Email: strings.ToLower(strings.TrimSpace(c.Params("email")))}
		if err := validators.Struct(reqData); err != nil {
			return err
		}
		c.Locals("lookupEmail", reqData.Email)
		return c.Next()
	}
}
