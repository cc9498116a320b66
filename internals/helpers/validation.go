package helper

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	validator "github.com/go-playground/validator/v10"
)

// NewValidator reports fields by their json name so messages match the payload.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldMessage renders one failed rule without the field name.
func FieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "email", "url", "uuid":
		return "must be a valid " + fe.Tag()
	default:
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}

// ValidationFields groups validator errors per field ("media[0]": [...]).
// Errors that are not validation errors land under "_".
func ValidationFields(err error) map[string][]string {
	out := map[string][]string{}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		out["_"] = []string{err.Error()}
		return out
	}
	for _, fe := range ve {
		out[fe.Field()] = append(out[fe.Field()], FieldMessage(fe))
	}
	return out
}
