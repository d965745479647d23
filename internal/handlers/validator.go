package handlers

import (
	"fintrack/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator implements echo.Validator interface
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns an echo.Validator backed by the shared rule set
func NewValidator() echo.Validator {
	return &CustomValidator{validator: validation.GetValidator().GetValidate()}
}

// Validate implements the echo.Validator interface
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}
