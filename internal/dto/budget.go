package dto

import (
	"encoding/json"
	"time"
)

// BudgetRequest is the create and full-update payload for a budget
type BudgetRequest struct {
	Category    string      `json:"category" validate:"required,budget_category"`
	LimitAmount json.Number `json:"limit_amount" validate:"required,money_amount"`
}

// BudgetResponse is the wire shape of a budget
type BudgetResponse struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	LimitAmount string    `json:"limit_amount"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BudgetComparisonResponse is one row of spending_vs_budget
type BudgetComparisonResponse struct {
	BudgetID   string  `json:"budget_id"`
	Category   string  `json:"category"`
	Limit      string  `json:"limit"`
	Spent      string  `json:"spent"`
	Remaining  string  `json:"remaining"`
	Percentage float64 `json:"percentage"`
	OverBudget bool    `json:"over_budget"`
}
