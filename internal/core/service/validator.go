package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/core/domain"
)

// requiredFields enforces the `validate` tags declared on domain types before
// anything is written to the store.
type requiredFields struct {
	v *validator.Validate
}

func newRequiredFields() *requiredFields {
	return &requiredFields{v: validator.New()}
}

// check validates i and converts field failures into a *domain.ValidationError
// named after entity.
func (r *requiredFields) check(entity string, i any) error {
	err := r.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, fieldError(fe))
	}
	return &domain.ValidationError{Entity: entity, Fields: fields}
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
