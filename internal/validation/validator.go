package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"fintrack/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

var (
	instance *Validator
	once     sync.Once
)

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	once.Do(func() {
		instance = NewValidator()
	})
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("money_amount", validateMoneyAmount)
	_ = v.RegisterValidation("iso_date", validateISODate)
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("category", validateCategory)
	_ = v.RegisterValidation("budget_category", validateBudgetCategory)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		return name
	})

	return &Validator{validate: v}
}

// Struct validates a struct against its validate tags
func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// FieldErrors flattens validator errors into JSON field name → message.
// Returns nil when err is not a validation error.
func FieldErrors(err error) map[string]string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		fields[fe.Field()] = Message(fe)
	}
	return fields
}

// Message converts a validator.FieldError to a human-readable message
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "eqfield":
		return fmt.Sprintf("must match %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "money_amount":
		return "must be a non-negative amount with at most 10 digits and 2 decimal places"
	case "iso_date":
		return "must be a date in YYYY-MM-DD format"
	case "transaction_type":
		return "must be expense or income"
	case "category":
		return fmt.Sprintf("must be one of: %s", strings.Join(models.AllCategories(), ", "))
	case "budget_category":
		return fmt.Sprintf("must be one of: %s", strings.Join(models.ExpenseCategories(), ", "))
	default:
		return fmt.Sprintf("failed validation for '%s'", fe.Tag())
	}
}

// Custom validation functions

// validateMoneyAmount accepts decimal strings (including json.Number) that fit
// the ledger's non-negative decimal(10,2) shape
func validateMoneyAmount(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return false
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return false
	}
	return models.ValidateAmount(amount) == nil
}

// validateISODate validates a YYYY-MM-DD calendar date
func validateISODate(fl validator.FieldLevel) bool {
	_, err := models.ParseDate(fl.Field().String())
	return err == nil
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return models.IsValidTransactionType(fl.Field().String())
}

// validateCategory checks membership in the union of all categories; the
// per-type check happens on the model
func validateCategory(fl validator.FieldLevel) bool {
	return models.IsValidCategory(fl.Field().String())
}

func validateBudgetCategory(fl validator.FieldLevel) bool {
	return models.IsValidBudgetCategory(fl.Field().String())
}
