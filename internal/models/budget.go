package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInvalidBudgetCategory = errors.New("budget category must be an expense category")
)

// Budget is a monthly spending limit for one expense category. A user has at
// most one budget per category.
type Budget struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_user_category,priority:1" json:"user_id"`
	Category    string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_budgets_user_category,priority:2" json:"category"`
	LimitAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"limit_amount"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;index" json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now
	}

	return b.Validate()
}

func (b *Budget) BeforeUpdate(tx *gorm.DB) error {
	b.UpdatedAt = time.Now()
	return b.Validate()
}

func (b *Budget) Validate() error {
	if b.UserID == uuid.Nil {
		return ErrOwnerRequired
	}

	if b.Category == "" {
		return ErrCategoryRequired
	}

	if !IsValidBudgetCategory(b.Category) {
		return ErrInvalidBudgetCategory
	}

	return ValidateAmount(b.LimitAmount)
}

func (b *Budget) TableName() string {
	return "budgets"
}

// BudgetInput is a create or full-update payload
type BudgetInput struct {
	Category    string
	LimitAmount decimal.Decimal
}

// ApplyTo copies the editable fields onto b. Ownership is left alone.
func (in BudgetInput) ApplyTo(b *Budget) {
	b.Category = strings.TrimSpace(in.Category)
	b.LimitAmount = in.LimitAmount
}
