package dto

import (
	"encoding/json"
	"time"
)

// TransactionRequest is the create and full-update payload. Amount accepts a
// JSON number or a decimal string.
type TransactionRequest struct {
	Type        string      `json:"type" validate:"required,transaction_type"`
	Category    string      `json:"category" validate:"required,category"`
	Amount      json.Number `json:"amount" validate:"required,money_amount"`
	Description string      `json:"description" validate:"max=255"`
	Date        string      `json:"date" validate:"required,iso_date"`
}

// TransactionListQuery contains filtering options for transaction queries
type TransactionListQuery struct {
	Type         string `query:"type" validate:"omitempty,transaction_type"`
	Category     string `query:"category" validate:"omitempty,category"`
	StartDate    string `query:"start_date" validate:"omitempty,iso_date"`
	EndDate      string `query:"end_date" validate:"omitempty,iso_date"`
	CurrentMonth bool   `query:"current_month"`
	Limit        int    `query:"limit" validate:"gte=0"`
	Offset       int    `query:"offset" validate:"gte=0"`
}

// CategoryQuery selects transactions for one category
type CategoryQuery struct {
	Category string `query:"category" validate:"required,category"`
}

// DateRangeQuery selects transactions between two inclusive dates
type DateRangeQuery struct {
	StartDate string `query:"start_date" validate:"required,iso_date"`
	EndDate   string `query:"end_date" validate:"required,iso_date"`
}

// TransactionResponse is the wire shape of a transaction. Amount is a
// two-place decimal string.
type TransactionResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PaginationInfo contains pagination metadata
type PaginationInfo struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// CategoriesResponse lists the allowed categories per transaction type
type CategoriesResponse struct {
	Expense []string `json:"expense"`
	Income  []string `json:"income"`
	Budget  []string `json:"budget"`
}
