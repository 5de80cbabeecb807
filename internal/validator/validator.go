package validator

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const (
	ErrRequired       = "is required"
	ErrMinValue       = "must be at least %s"
	ErrMaxValue       = "must be at most %s"
	ErrMinLength      = "must be at least %s characters long"
	ErrMaxLength      = "must be at most %s characters long"
	ErrMinItems       = "must contain at least %s items"
	ErrMaxItems       = "must contain at most %s items"
	ErrUniqueIds      = "must not contain duplicate ids"
	ErrNotBlank       = "must not be blank"
	ErrDefaultInvalid = "is invalid"
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("unique_ids", validateUniqueIds)
	validator.RegisterValidation("notblank", validators.NotBlank)

	return validator
}

func validateUniqueIds(fl validator.FieldLevel) bool {
	ids, ok := fl.Field().Interface().([]int)
	if !ok {
		return false
	}

	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
	}

	return true
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return ErrRequired
	case "min":
		return fmt.Sprintf(boundMessage(err.Kind(), ErrMinLength, ErrMinItems, ErrMinValue), err.Param())
	case "max":
		return fmt.Sprintf(boundMessage(err.Kind(), ErrMaxLength, ErrMaxItems, ErrMaxValue), err.Param())
	case "gt":
		return fmt.Sprintf(ErrMinValue, "1")
	case "unique_ids":
		return ErrUniqueIds
	case "notblank":
		return ErrNotBlank
	default:
		return ErrDefaultInvalid
	}
}

func boundMessage(kind reflect.Kind, length, items, value string) string {
	switch kind {
	case reflect.String:
		return length
	case reflect.Slice, reflect.Array, reflect.Map:
		return items
	default:
		return value
	}
}
