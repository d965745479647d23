package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetProgress is one budget's spend within the current month window
type BudgetProgress struct {
	Category   string
	Limit      decimal.Decimal
	Spent      decimal.Decimal
	Percentage float64
}

// Overview is the dashboard headline for a user as of a date
type Overview struct {
	AsOf              time.Time
	TotalExpenses     decimal.Decimal
	TotalIncome       decimal.Decimal
	NetBalance        decimal.Decimal
	ThisMonthSpending decimal.Decimal
	BudgetProgress    []BudgetProgress
}

// CategorySpending is one slice of the monthly spending breakdown.
// BudgetLimit is nil when the category has no budget.
type CategorySpending struct {
	Category    string
	Amount      decimal.Decimal
	Percentage  float64
	BudgetLimit *decimal.Decimal
}

// BudgetComparison compares a budget limit against the month's spending
type BudgetComparison struct {
	BudgetID   string
	Category   string
	Limit      decimal.Decimal
	Spent      decimal.Decimal
	Remaining  decimal.Decimal
	Percentage float64
	OverBudget bool
}
