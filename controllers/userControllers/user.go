package userController

import (
	"errors"
	"fmt"
	"log"

	"summercamp/auth"
	"summercamp/config"
	"summercamp/middleware"
	"summercamp/models"
	userValidator "summercamp/validators/userValidator"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Handler struct {
	db        *gorm.DB
	authority *auth.Authority
}

func NewHandler(db *gorm.DB, authority *auth.Authority) *Handler {
	return &Handler{db: db, authority: authority}
}

// DeleteRoles maps USER_DELETE_POLICY to the roles allowed to delete accounts.
func DeleteRoles(policy string) auth.RoleSet {
	if policy == config.DeletePolicyAdminOrInstructor {
		return auth.AdminOrInstructor
	}
	return auth.AdminOnly
}

func (h *Handler) List(c *fiber.Ctx) error {
	var users []models.User
	if err := h.db.WithContext(c.UserContext()).Order("id asc").Find(&users).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, false, "Users fetched successfully!", users)
}

func (h *Handler) Instructors(c *fiber.Ctx) error {
	var users []models.User
	err := h.db.WithContext(c.UserContext()).
		Where("role = ?", models.RoleInstructor).
		Order("id asc").
		Find(&users).Error
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, false, "Instructors fetched successfully!", users)
}

// Create registers an account once per email. Repeat registrations return the
// stored account untouched.
func (h *Handler) Create(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUser").(*userValidator.CreateUserRequest)
	db := h.db.WithContext(c.UserContext())

	user := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		PhotoURL: reqData.PhotoURL,
		Role:     models.RoleLearner,
	}
	res := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).Create(&user)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		var existing models.User
		if err := db.Where("email = ?", reqData.Email).First(&existing).Error; err != nil {
			return err
		}
		return middleware.JsonResponse(c, fiber.StatusOK, false, "User already exists!", fiber.Map{
			"duplicate": true,
			"user":      existing,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, false, "User created successfully!", fiber.Map{
		"duplicate": false,
		"user":      user,
	})
}

// RoleLookup answers role flags for the caller's own email only.
func (h *Handler) RoleLookup(c *fiber.Ctx) error {
	email := c.Locals("lookupEmail").(string)
	if email != middleware.Email(c) {
		return auth.ErrForbidden
	}

	role, err := h.authority.ResolveRole(c.UserContext(), email)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, false, "Role fetched successfully!", fiber.Map{
		"role":       role.String(),
		"admin":      role == auth.RoleAdmin,
		"instructor": role == auth.RoleInstructor,
	})
}

// UpdateRole changes a user's role. Admin only.
func (h *Handler) UpdateRole(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	reqData := c.Locals("validatedRole").(*userValidator.UpdateRoleRequest)
	db := h.db.WithContext(c.UserContext())

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %d: %w", userID, middleware.ErrNotFound)
		}
		return err
	}

	if err := db.Model(&user).Update("role", reqData.Role).Error; err != nil {
		return err
	}

	log.Printf("[USERS] %s set role of %s to %s", middleware.Email(c), user.Email, reqData.Role)
	return middleware.JsonResponse(c, fiber.StatusOK, false, "Role updated successfully!", user)
}

// Delete removes an account and its pending entries. Callers cannot delete an
// account whose role outranks their own.
func (h *Handler) Delete(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	actor := middleware.Role(c)

	err := h.db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %d: %w", userID, middleware.ErrNotFound)
			}
			return err
		}

		target, _ := auth.ParseRole(user.Role)
		if target.Outranks(actor) {
			return auth.ErrForbidden
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return err
	}

	log.Printf("[USERS] %s deleted user %d", middleware.Email(c), userID)
	return middleware.JsonResponse(c, fiber.StatusOK, false, "User deleted successfully!", fiber.Map{"id": userID})
}
