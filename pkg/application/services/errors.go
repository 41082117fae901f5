package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrValidation marks input the caller must fix before retrying
var ErrValidation = errors.New("validation failed")

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput runs struct tag validation and tags failures with ErrValidation
func validateInput(in any) error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
