package courseValidator

import (
	"strings"

	"summercamp/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateCourseRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"omitempty,max=5000"`
	ImageURL    string  `json:"image" validate:"omitempty,url"`
	Price       float64 `json:"price" validate:"gt=0"`
	Capacity    int     `json:"capacity" validate:"required,gt=0"`
}

type AdminListRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=pending approved"`
}

// CreateCourse validator middleware
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if err := validators.Body(c, reqData); err != nil {
			return err
		}
		reqData.Title = strings.TrimSpace(reqData.Title)

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func AdminList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AdminListRequest)
		if err := validators.Query(c, reqData); err != nil {
			return err
		}
		c.Locals("validatedCourseList", reqData)
		return c.Next()
	}
}

// CourseID reads the :id route parameter
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := validators.ParamID(c, "id")
		if err != nil {
			return err
		}
		c.Locals("courseID", courseID)
		return c.Next()
	}
}
