package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/pil97/go-ticketing-backend/internal/apperr"
	"github.com/pil97/go-ticketing-backend/internal/response"
)

var setupValidator sync.Once

// registerValidation configures Gin's validator engine once: violations are
// reported under JSON field names, and the "notblank" tag is available.
func registerValidation() {
	setupValidator.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
	})
}

// bindJSON decodes the request body into dst and validates it. The returned
// error is already classified for the ErrorHandler.
func bindJSON(c *gin.Context, dst any) error {
	registerValidation()
	if err := c.ShouldBindJSON(dst); err != nil {
		return bindError(err)
	}
	return nil
}

// bindError maps a binding error onto a failure. Field violations keep the
// order of the struct fields; anything else is a malformed body.
func bindError(err error) error {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		out := make([]response.FieldViolation, 0, len(ves))
		for _, fe := range ves {
			out = append(out, response.FieldViolation{Field: fe.Field(), Message: violationMessage(fe)})
		}
		return apperr.NewValidationError(out)
	}
	return apperr.New(apperr.InvalidRequestBody).WithCause(err)
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
