package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/pkg/response"
)

// parseID reads the :id path parameter. On a non-numeric or zero value it
// writes the 400 itself and returns false.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, 10002, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// bindingFailed writes the 400 for a bind error, with a per-field detail
// map when the failure came from struct validation.
func bindingFailed(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[snakeCase(fe.Field())] = validationMessage(fe)
		}
		response.FieldErrors(c, 10001, fields)
		return
	}
	response.BadRequest(c, 10001, "request validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "must match format " + fe.Param()
	default:
		return "is invalid"
	}
}

// snakeCase converts a Go field name to its wire form.
func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
