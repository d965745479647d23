package dto

// OverviewResponse is the dashboard headline
type OverviewResponse struct {
	AsOf              string                   `json:"as_of"`
	TotalExpenses     string                   `json:"total_expenses"`
	TotalIncome       string                   `json:"total_income"`
	NetBalance        string                   `json:"net_balance"`
	ThisMonthSpending string                   `json:"this_month_spending"`
	BudgetProgress    []BudgetProgressResponse `json:"budget_progress"`
}

// BudgetProgressResponse is one budget's spend in the current month
type BudgetProgressResponse struct {
	Category   string  `json:"category"`
	Limit      string  `json:"limit"`
	Spent      string  `json:"spent"`
	Percentage float64 `json:"percentage"`
}

// CategorySpendingResponse is one slice of the spending breakdown
type CategorySpendingResponse struct {
	Category    string  `json:"category"`
	Amount      string  `json:"amount"`
	Percentage  float64 `json:"percentage"`
	BudgetLimit *string `json:"budget_limit"`
}

// TrendPointResponse is the expense total for one date
type TrendPointResponse struct {
	Date   string `json:"date"`
	Amount string `json:"amount"`
}

// TrendQuery sets the trend window length in days
type TrendQuery struct {
	Days int `query:"days" validate:"gte=0"`
}

// RecentQuery caps the number of recent transactions
type RecentQuery struct {
	Limit int `query:"limit" validate:"gte=0"`
}
