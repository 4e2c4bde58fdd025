// Package validators holds the request checks shared by the per-area
// validator middlewares.
package validators

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"summercamp/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			name, _, _ = strings.Cut(field.Tag.Get("query"), ",")
		}
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// Struct runs the validate tags on v.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fieldName(fe)] = message(fe)
	}
	return &middleware.ValidationError{Fields: fields}
}

// Body parses the request body into dst and validates it.
func Body(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body!")
	}
	return Struct(dst)
}

// Query parses the query string into dst and validates it.
func Query(c *fiber.Ctx, dst interface{}) error {
	if err := c.QueryParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters!")
	}
	return Struct(dst)
}

// ParamID reads a positive numeric route parameter.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, &middleware.ValidationError{Fields: map[string]string{name: "Invalid " + name + "!"}}
	}
	return uint(id), nil
}

func fieldName(fe validator.FieldError) string {
	// Nested and slice fields keep their path, minus the struct name
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required!"
	case "email":
		return "Invalid email!"
	case "url":
		return field + " must be a valid URL!"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s!", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s!", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must contain at least %s item(s)!", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long!", field, fe.Param())
	default:
		return "Invalid " + field + "!"
	}
}
