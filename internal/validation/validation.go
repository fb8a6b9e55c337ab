// Package validation shapes binding failures into the API's structured
// validation error body and checks path/query parameter formats.
package validation

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ErrorBody is the response for every validation failure: a stable error
// string plus per-field violation messages.
type ErrorBody struct {
	Error   string              `json:"error"`
	Details map[string][]string `json:"details,omitempty"`
}

func init() {
	// report json field names in details instead of Go struct names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// BindJSON binds the request body into obj; on failure it writes the 400
// validation body and reports false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		Respond(c, err)
		return false
	}
	return true
}

// Respond writes a 400 validation failure derived from a binding error.
func Respond(c *gin.Context, err error) {
	body := ErrorBody{Error: "Validation failed"}

	if verrs, ok := err.(validator.ValidationErrors); ok {
		body.Details = make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			field := fe.Field()
			if field == "" {
				field = "body"
			}
			body.Details[field] = append(body.Details[field], message(fe))
		}
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, body)
}

// Fail writes a 400 validation failure with a single field violation.
func Fail(c *gin.Context, field, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{
		Error:   "Validation failed",
		Details: map[string][]string{field: {msg}},
	})
}

// NumericParam parses a numeric-string path parameter. On failure it writes
// the 400 validation body and reports false.
func NumericParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		Fail(c, name, "ID must be a positive integer.")
		return 0, false
	}
	return uint(id), true
}

// EnumQuery checks an optional query parameter against allowed values.
// An absent parameter returns ("", true).
func EnumQuery(c *gin.Context, name string, allowed ...string) (string, bool) {
	raw := c.Query(name)
	if raw == "" {
		return "", true
	}
	for _, v := range allowed {
		if raw == v {
			return raw, true
		}
	}
	Fail(c, name, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
	return "", false
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}
