package controllers

import (
	"summercamp/middleware"
	"summercamp/models"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Reviews(c *fiber.Ctx) error {
	query := h.db.WithContext(c.UserContext()).Order("id asc")
	if courseID := c.QueryInt("courseId"); courseID > 0 {
		query = query.Where("course_id = ?", courseID)
	}

	var reviews []models.Review
	if err := query.Find(&reviews).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, false, "Reviews fetched successfully!", reviews)
}
