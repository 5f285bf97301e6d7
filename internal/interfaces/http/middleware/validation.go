package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RequestIDKey is the gin context key holding the request id
const RequestIDKey = "request_id"

var setupValidatorOnce sync.Once

// SetupValidator reports fields by their json (or form) name and lets the
// numeric tags (gt, gte, lte) compare decimal amounts and quantities.
// Safe to call more than once.
func SetupValidator() {
	setupValidatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	})
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return ""
}

// decimalValue exposes a decimal to the validator as a float. Only the
// comparison tags see this value; handlers still bind the exact decimal.
func decimalValue(v reflect.Value) any {
	d, ok := v.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	return d.InexactFloat64()
}

// FormatValidationErrors turns a binding error into the standard envelope.
// Anything that is not a field validation failure (malformed JSON, a
// string where a number belongs) is INVALID_JSON.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return dto.NewErrorResponseWithRequestID(dto.ErrCodeInvalidJSON, "Invalid request body", requestID)
	}

	details := make([]dto.ValidationDetail, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, dto.ValidationDetail{Field: fe.Field(), Message: validationMessage(fe)})
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError aborts with 400 and the formatted details
func HandleValidationError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, FormatValidationErrors(err, getRequestIDFromContext(c)))
}

func getRequestIDFromContext(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(RequestIDHeader)
}

func validationMessage(fe validator.FieldError) string {
	p := fe.Param()
	isText := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + p
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", p)
	case "min":
		if isText {
			return fmt.Sprintf("Must be at least %s characters", p)
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Must contain at least %s item(s)", p)
		}
		return "Must be at least " + p
	case "max":
		if isText {
			return fmt.Sprintf("Must be at most %s characters", p)
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Must contain at most %s item(s)", p)
		}
		return "Must be at most " + p
	case "gt":
		return "Must be greater than " + p
	case "gte":
		return "Must be greater than or equal to " + p
	case "lt":
		return "Must be less than " + p
	case "lte":
		return "Must be less than or equal to " + p
	default:
		return "Invalid value"
	}
}
