package cartController

import (
	"errors"
	"fmt"

	"summercamp/auth"
	"summercamp/enrollment"
	"summercamp/middleware"
	"summercamp/models"
	cartValidator "summercamp/validators/cart"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Handler serves the cart and pending enrollment routes. A cart entry is the
// pending enrollment for its course until a payment completes.
type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// List returns the cart for ?email=, which must be the caller's own.
func (h *Handler) List(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCartQuery").(*cartValidator.CartQuery)
	if reqData.Email != middleware.Email(c) {
		return auth.ErrForbidden
	}

	var items []models.CartItem
	err := h.db.WithContext(c.UserContext()).
		Where("email = ?", reqData.Email).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, false, "Cart fetched successfully!", items)
}

func (h *Handler) Add(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCartItem").(*cartValidator.AddToCartRequest)
	return h.addPending(c, reqData.CourseID)
}

// Remove deletes one of the caller's cart entries by entry id.
func (h *Handler) Remove(c *fiber.Ctx) error {
	itemID := c.Locals("itemID").(uint)
	user := middleware.User(c)

	res := h.db.WithContext(c.UserContext()).
		Where("id = ? AND user_id = ?", itemID, user.ID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %d: %w", itemID, middleware.ErrNotFound)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, false, "Cart item removed successfully!", fiber.Map{"deletedCount": res.RowsAffected})
}

// Enrolled lists the courses the caller has completed payment for.
func (h *Handler) Enrolled(c *fiber.Ctx) error {
	user := middleware.User(c)

	var courses []models.Course
	err := h.db.WithContext(c.UserContext()).
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.user_id = ?", user.ID).
		Order("enrollments.id asc").
		Find(&courses).Error
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, false, "Enrolled courses fetched successfully!", courses)
}

// AddPendingEnrollment marks course :id as pending for the caller.
func (h *Handler) AddPendingEnrollment(c *fiber.Ctx) error {
	return h.addPending(c, c.Locals("itemID").(uint))
}

// RemovePendingEnrollment drops the caller's pending entry for course :id.
func (h *Handler) RemovePendingEnrollment(c *fiber.Ctx) error {
	courseID := c.Locals("itemID").(uint)
	user := middleware.User(c)

	res := h.db.WithContext(c.UserContext()).
		Where("user_id = ? AND course_id = ?", user.ID, courseID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	return middleware.JsonResponse(c, fiber.StatusOK, false, "Pending enrollment removed successfully!", fiber.Map{"deletedCount": res.RowsAffected})
}

func (h *Handler) addPending(c *fiber.Ctx, courseID uint) error {
	user := middleware.User(c)
	db := h.db.WithContext(c.UserContext())

	var course models.Course
	err := db.Where("id = ? AND status = ?", courseID, models.CourseStatusApproved).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("course %d: %w", courseID, enrollment.ErrCourseUnavailable)
	}
	if err != nil {
		return err
	}

	var enrolled int64
	if err := db.Model(&models.Enrollment{}).Where("user_id = ? AND course_id = ?", user.ID, courseID).Count(&enrolled).Error; err != nil {
		return err
	}
	if enrolled > 0 {
		return fmt.Errorf("course %d: %w", courseID, enrollment.ErrAlreadyEnrolled)
	}

	item := models.CartItem{
		UserID:      user.ID,
		Email:       user.Email,
		CourseID:    course.ID,
		CourseTitle: course.Title,
		Price:       course.Price,
	}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&item)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		var existing models.CartItem
		if err := db.Where("user_id = ? AND course_id = ?", user.ID, courseID).First(&existing).Error; err != nil {
			return err
		}
		return middleware.JsonResponse(c, fiber.StatusOK, false, "Course already in cart!", existing)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, false, "Course added to cart successfully!", item)
}
