package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/tms/backend/internal/domain/shared/valueobject"
	"github.com/tms/backend/internal/interfaces/http/dto"
)

// SetupValidator reports JSON field names in validation errors and registers
// the container_no and subdomain tags on gin's validator
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected gin validator engine")
	}
	return RegisterValidations(v)
}

// RegisterValidations installs the custom tags on v
func RegisterValidations(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	if err := v.RegisterValidation("container_no", func(fl validator.FieldLevel) bool {
		return valueobject.IsValidContainerNumber(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("subdomain", func(fl validator.FieldLevel) bool {
		return valueobject.IsValidSubdomain(fl.Field().String())
	})
}

// FormatValidationErrors turns binding errors into the 400 error body
func FormatValidationErrors(err error, requestID string) dto.ErrorResponse {
	var details []dto.ValidationDetail
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: validationMessage(e),
			})
		}
	}
	if len(details) == 0 {
		return dto.NewErrorResponseWithRequestID(dto.ErrCodeValidation, "invalid request body", requestID)
	}

	msg := details[0].Field + ": " + details[0].Message
	return dto.NewValidationErrorResponse(msg, requestID, details)
}

// HandleValidationError writes a 400 for a failed bind
func HandleValidationError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "must be at least " + e.Param() + " characters"
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "must be at most " + e.Param() + " characters"
		}
		return "must be at most " + e.Param()
	case "len":
		return "must be exactly " + e.Param() + " characters"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "container_no":
		return "must be a valid ISO 6346 container number"
	case "subdomain":
		return "must be 3-63 lowercase letters, digits or hyphens and not reserved"
	default:
		return "is invalid"
	}
}
