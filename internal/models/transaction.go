package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionTypeExpense = "expense"
	TransactionTypeIncome  = "income"

	MaxDescriptionLength = 255
)

var (
	ErrInvalidTransactionType = errors.New("transaction type must be expense or income")
	ErrCategoryRequired       = errors.New("category is required")
	ErrInvalidCategory        = errors.New("category is not valid for the transaction type")
	ErrNegativeAmount         = errors.New("amount must not be negative")
	ErrAmountPrecision        = errors.New("amount must have at most 10 digits with 2 decimal places")
	ErrDescriptionTooLong     = errors.New("description must be at most 255 characters")
	ErrDateRequired           = errors.New("date is required")
	ErrOwnerRequired          = errors.New("user ID is required")
)

// maxAmount is the first value that no longer fits decimal(10,2).
var maxAmount = decimal.New(1, 8)

// Transaction is a single income or expense entry in a user's ledger. Date is
// a calendar date held at UTC midnight.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_transactions_user_date,priority:1" json:"user_id"`
	Type        string          `gorm:"type:varchar(10);not null" json:"type"`
	Category    string          `gorm:"type:varchar(50);not null" json:"category"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Description string          `gorm:"type:varchar(255);not null;default:''" json:"description"`
	Date        time.Time       `gorm:"type:date;not null;index:idx_transactions_user_date,priority:2" json:"date"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate hook for Transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	t.Date = DateOnly(t.Date)

	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	return t.Validate()
}

// BeforeUpdate hook for Transaction
func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	t.Date = DateOnly(t.Date)
	t.UpdatedAt = time.Now()
	return t.Validate()
}

// Validate validates the transaction fields
func (t *Transaction) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrOwnerRequired
	}

	if !IsValidTransactionType(t.Type) {
		return ErrInvalidTransactionType
	}

	if strings.TrimSpace(t.Category) == "" {
		return ErrCategoryRequired
	}

	if !IsValidCategoryForType(t.Type, t.Category) {
		return ErrInvalidCategory
	}

	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}

	if len([]rune(t.Description)) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}

	if t.Date.IsZero() {
		return ErrDateRequired
	}

	return nil
}

// IsExpense returns true for expense transactions
func (t *Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

// TableName returns the table name for Transaction
func (t *Transaction) TableName() string {
	return "transactions"
}

// IsValidTransactionType checks if the transaction type is valid
func IsValidTransactionType(transactionType string) bool {
	switch transactionType {
	case TransactionTypeExpense, TransactionTypeIncome:
		return true
	default:
		return false
	}
}

// ValidateAmount enforces the decimal(10,2), non-negative money shape.
// Trailing zeros beyond two places are accepted.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	if !amount.Equal(amount.Round(2)) || amount.GreaterThanOrEqual(maxAmount) {
		return ErrAmountPrecision
	}
	return nil
}

// TransactionInput is a create or full-update payload
type TransactionInput struct {
	Type        string
	Category    string
	Amount      decimal.Decimal
	Description string
	Date        time.Time
}

// ApplyTo copies the editable fields onto t. Ownership is left alone.
func (in TransactionInput) ApplyTo(t *Transaction) {
	t.Type = strings.TrimSpace(in.Type)
	t.Category = strings.TrimSpace(in.Category)
	t.Amount = in.Amount
	t.Description = in.Description
	t.Date = DateOnly(in.Date)
}
