// Package validation provides HTTP request validation utilities using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	domainerrors "github.com/readwellapp/readwell-server/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for our domain.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		// Remove options like omitempty, -
		for i := range len(name) {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})

	// safeurl rejects URL schemes that can smuggle script into the reader.
	// data: URLs are allowed only for fonts.
	if err := v.RegisterValidation("safeurl", validateSafeURL); err != nil {
		panic(fmt.Sprintf("register safeurl validator: %v", err))
	}

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain error.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// Var validates a single value against a tag expression.
func (v *Validator) Var(value any, tag string) error {
	if err := v.v.Var(value, tag); err != nil {
		return v.formatError(err)
	}
	return nil
}

// validateSafeURL implements the safeurl rule. Empty values pass; pair with
// required when the field is mandatory.
func validateSafeURL(fl validator.FieldLevel) bool {
	return IsSafeURL(fl.Field().String())
}

// IsSafeURL reports whether a URL/path string is acceptable for storage.
// javascript:, vbscript: and data: schemes are rejected, except data:font/*.
func IsSafeURL(s string) bool {
	if s == "" {
		return true
	}
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, scheme := range []string{"javascript:", "vbscript:"} {
		if strings.HasPrefix(lower, scheme) {
			return false
		}
	}
	if strings.HasPrefix(lower, "data:") {
		return strings.HasPrefix(lower, "data:font/")
	}
	return true
}

// formatError converts validator errors to domain errors.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Collect all field errors
	fieldErrors := make(map[string]string)
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = v.friendlyMessage(e)
	}

	// Return domain validation error with details
	return domainerrors.ValidationWithDetails("validation failed", fieldErrors)
}

func (v *Validator) friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s", e.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", e.Param())
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "lte":
		return fmt.Sprintf("must not exceed %s", e.Param())
	case "gtefield":
		return fmt.Sprintf("must not be less than %s", e.Param())
	case "safeurl":
		return "must not use a javascript:, vbscript: or non-font data: URL"
	default:
		return fmt.Sprintf("failed validation: %s", e.Tag())
	}
}
