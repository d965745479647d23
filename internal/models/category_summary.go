package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategorySummary contains aggregated expense data by category
type CategorySummary struct {
	Category         string          `json:"category"`
	TransactionCount int64           `json:"transaction_count"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
}

// DailyTotal is the summed expense amount for one calendar date
type DailyTotal struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// LedgerTotals holds all-time sums per transaction type
type LedgerTotals struct {
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
}

// NetBalance is income minus expenses
func (t LedgerTotals) NetBalance() decimal.Decimal {
	return t.TotalIncome.Sub(t.TotalExpenses)
}
