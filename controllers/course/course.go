package controllers

import (
	"errors"
	"fmt"
	"log"

	"summercamp/middleware"
	"summercamp/models"
	courseValidator "summercamp/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// ListApproved returns the public catalog.
func (h *Handler) ListApproved(c *fiber.Ctx) error {
	var courses []models.Course
	err := h.db.WithContext(c.UserContext()).
		Where("status = ?", models.CourseStatusApproved).
		Order("id asc").
		Find(&courses).Error
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, false, "Courses fetched successfully!", courses)
}

// Create adds a course owned by the calling instructor. New courses wait for
// admin approval before they are sold.
func (h *Handler) Create(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	instructor := middleware.User(c)

	course := models.Course{
		InstructorID:    instructor.ID,
		InstructorName:  instructor.Name,
		InstructorEmail: instructor.Email,
		Title:           reqData.Title,
		Description:     reqData.Description,
		ImageURL:        reqData.ImageURL,
		Price:           reqData.Price,
		Capacity:        reqData.Capacity,
		AvailableSeats:  reqData.Capacity,
		Status:          models.CourseStatusPending,
	}
	if err := h.db.WithContext(c.UserContext()).Create(&course).Error; err != nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, false, "Course created successfully!", course)
}

// AdminList returns every course, optionally filtered by status.
func (h *Handler) AdminList(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourseList").(*courseValidator.AdminListRequest)

	query := h.db.WithContext(c.UserContext()).Order("id asc")
	if reqData.Status != "" {
		query = query.Where("status = ?", reqData.Status)
	}

	var courses []models.Course
	if err := query.Find(&courses).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, false, "Courses fetched successfully!", courses)
}

func (h *Handler) Approve(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	db := h.db.WithContext(c.UserContext())

	var course models.Course
	err := db.First(&course, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("course %d: %w", courseID, middleware.ErrNotFound)
	}
	if err != nil {
		return err
	}

	// MySQL reports zero affected rows when the status is already approved.
	if err := db.Model(&course).Update("status", models.CourseStatusApproved).Error; err != nil {
		return err
	}

	log.Printf("[COURSES] %s approved course %d", middleware.Email(c), courseID)
	return middleware.JsonResponse(c, fiber.StatusOK, false, "Course approved successfully!", course)
}
