package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrValidation is wrapped by every error returned from Validate.
var ErrValidation = errors.New("validation failed")

var validate = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("project_status", func(fl validator.FieldLevel) bool {
		return ValidProjectStatuses[fl.Field().String()]
	})
	_ = v.RegisterValidation("task_status", func(fl validator.FieldLevel) bool {
		return ValidTaskStatuses[fl.Field().String()]
	})
	_ = v.RegisterValidation("hex_color", func(fl validator.FieldLevel) bool {
		return hexColorPattern.MatchString(fl.Field().String())
	})
	return v
})

// Validate checks an entity's struct tags and returns a single error listing
// every failing field.
func Validate(entity any) error {
	err := validate().Struct(entity)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return fmt.Sprintf("%s %q is not a valid email address", field, fe.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "hex_color":
		return fmt.Sprintf("%s %q must be a #RRGGBB hex color", field, fe.Value())
	case "project_status", "task_status":
		return fmt.Sprintf("%s %q is not a known status", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
