// Package validate wraps go-playground/validator to turn tag failures into
// the structured field-error list the API returns for 400 responses.
package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes a single invalid request field. Field is the JSON
// name, not the Go name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

// Struct validates s and returns one error per invalid field, or nil when
// everything passes.
func Struct(s any) []FieldError {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Message: "invalid request"}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Kind() == reflect.Bool {
			return fe.Field() + " must be accepted"
		}
		return fe.Field() + " is required"
	case "email":
		return "invalid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	}
	return fe.Field() + " is invalid"
}
