package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"Kitchen-Backend/domain"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func InitValidator() {
	Validate = validator.New()
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ValidationErrors turns validator output into a domain.ValidationError
// that lists every failing field. Other errors are returned unchanged.
func ValidationErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := domain.NewValidationError()
	for _, fe := range verrs {
		out.Add(fieldKey(fe), fieldMessage(fe))
	}
	return out
}

func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.ReplaceAll(ns, "RecipePatch.", "")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return domain.MessageFieldRequired
	case "url":
		return "Enter a valid URL."
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", fe.Param())
	case "min", "gte":
		return fmt.Sprintf("Must be at least %s.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
	}
}
