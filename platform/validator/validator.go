// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"math"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator for structured validation.
// Using a struct allows for dependency injection and easier testing.
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator instance with domain validations registered.
func New() *Validator {
	v := validator.New()

	// finite rejects NaN and infinities on float fields; required alone lets
	// NaN through, which would otherwise reach the planning service.
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})

	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}
