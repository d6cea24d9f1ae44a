package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

var validate = validator.New()

// validateStruct runs struct-tag validation and translates failures into a
// VALIDATION_FAILED domain error with readable per-field messages.
func validateStruct(i any) error {
	err := validate.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	msgs := make([]string, 0, len(ve))
	details := make(map[string]any, len(ve))
	for _, fe := range ve {
		msg := fieldError(fe)
		msgs = append(msgs, msg)
		details[strings.ToLower(fe.Field())] = msg
	}
	return apperrors.NewValidationError(strings.Join(msgs, "; "), details)
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
