package models

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTransaction() Transaction {
	return Transaction{
		UserID:   uuid.New(),
		Type:     TransactionTypeExpense,
		Category: CategoryFood,
		Amount:   decimal.RequireFromString("12.50"),
		Date:     time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
	}
}

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(tx *Transaction)
		wantErr error
	}{
		{name: "valid expense", modify: func(tx *Transaction) {}},
		{
			name: "valid income",
			modify: func(tx *Transaction) {
				tx.Type = TransactionTypeIncome
				tx.Category = CategorySalary
			},
		},
		{name: "zero amount allowed", modify: func(tx *Transaction) { tx.Amount = decimal.Zero }},
		{name: "trailing zeros allowed", modify: func(tx *Transaction) { tx.Amount = decimal.RequireFromString("10.500") }},
		{name: "missing user", modify: func(tx *Transaction) { tx.UserID = uuid.Nil }, wantErr: ErrOwnerRequired},
		{name: "invalid type", modify: func(tx *Transaction) { tx.Type = "transfer" }, wantErr: ErrInvalidTransactionType},
		{name: "missing category", modify: func(tx *Transaction) { tx.Category = "" }, wantErr: ErrCategoryRequired},
		{name: "income category on expense", modify: func(tx *Transaction) { tx.Category = CategorySalary }, wantErr: ErrInvalidCategory},
		{
			name: "expense category on income",
			modify: func(tx *Transaction) {
				tx.Type = TransactionTypeIncome
				tx.Category = CategoryFood
			},
			wantErr: ErrInvalidCategory,
		},
		{name: "negative amount", modify: func(tx *Transaction) { tx.Amount = decimal.RequireFromString("-1") }, wantErr: ErrNegativeAmount},
		{name: "three decimals", modify: func(tx *Transaction) { tx.Amount = decimal.RequireFromString("1.005") }, wantErr: ErrAmountPrecision},
		{name: "too many digits", modify: func(tx *Transaction) { tx.Amount = decimal.RequireFromString("100000000.00") }, wantErr: ErrAmountPrecision},
		{name: "largest amount", modify: func(tx *Transaction) { tx.Amount = decimal.RequireFromString("99999999.99") }},
		{name: "long description", modify: func(tx *Transaction) { tx.Description = strings.Repeat("a", 256) }, wantErr: ErrDescriptionTooLong},
		{name: "missing date", modify: func(tx *Transaction) { tx.Date = time.Time{} }, wantErr: ErrDateRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.modify(&tx)
			err := tx.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTransaction_BeforeCreate(t *testing.T) {
	tx := validTransaction()
	tx.Date = time.Date(2024, 5, 3, 18, 45, 0, 0, time.UTC)

	require.NoError(t, tx.BeforeCreate(nil))

	assert.NotEqual(t, uuid.Nil, tx.ID)
	assert.Equal(t, time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), tx.Date)
	assert.False(t, tx.CreatedAt.IsZero())
	assert.False(t, tx.UpdatedAt.IsZero())
}

func TestCategoriesFor(t *testing.T) {
	assert.Contains(t, CategoriesFor(TransactionTypeExpense), CategoryFood)
	assert.NotContains(t, CategoriesFor(TransactionTypeExpense), CategorySalary)
	assert.Contains(t, CategoriesFor(TransactionTypeIncome), CategoryPartTimeJob)
	assert.Nil(t, CategoriesFor("transfer"))
	assert.Len(t, AllCategories(), len(ExpenseCategories())+len(IncomeCategories()))
}

func TestIsValidBudgetCategory(t *testing.T) {
	assert.True(t, IsValidBudgetCategory(CategoryFood))
	assert.False(t, IsValidBudgetCategory(CategorySalary))
	assert.False(t, IsValidBudgetCategory("FOOD"))
}
