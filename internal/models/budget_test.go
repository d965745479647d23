package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudget_Validate(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name    string
		budget  Budget
		wantErr error
	}{
		{
			name:   "valid budget",
			budget: Budget{UserID: userID, Category: CategoryFood, LimitAmount: decimal.RequireFromString("200.00")},
		},
		{
			name:   "zero limit allowed",
			budget: Budget{UserID: userID, Category: CategoryHealth, LimitAmount: decimal.Zero},
		},
		{
			name:    "missing user",
			budget:  Budget{Category: CategoryFood, LimitAmount: decimal.NewFromInt(1)},
			wantErr: ErrOwnerRequired,
		},
		{
			name:    "missing category",
			budget:  Budget{UserID: userID, LimitAmount: decimal.NewFromInt(1)},
			wantErr: ErrCategoryRequired,
		},
		{
			name:    "income category",
			budget:  Budget{UserID: userID, Category: CategorySalary, LimitAmount: decimal.NewFromInt(1)},
			wantErr: ErrInvalidBudgetCategory,
		},
		{
			name:    "negative limit",
			budget:  Budget{UserID: userID, Category: CategoryFood, LimitAmount: decimal.NewFromInt(-5)},
			wantErr: ErrNegativeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.budget.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBudget_BeforeCreate(t *testing.T) {
	budget := Budget{UserID: uuid.New(), Category: CategoryFood, LimitAmount: decimal.NewFromInt(100)}

	require.NoError(t, budget.BeforeCreate(nil))

	assert.NotEqual(t, uuid.Nil, budget.ID)
	assert.False(t, budget.CreatedAt.IsZero())
}
