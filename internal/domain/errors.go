package domain

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrValidation is returned when an entity fails validation. It is
	// wrapped together with the field-level details.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned by storage when a deck or card does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidGrade is returned when a grade is outside 0-5.
	ErrInvalidGrade = errors.New("invalid grade")

	// ErrInvalidButton is returned for an unknown answer button label.
	ErrInvalidButton = errors.New("invalid answer button")
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator instance.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

func validateStruct(v any) error {
	if err := Validator().Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
