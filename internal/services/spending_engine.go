package services

import (
	"slices"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Percentage returns part as a share of whole, times 100, rounded to two
// places. A zero whole yields 0.
func Percentage(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Div(whole).Mul(hundred).Round(2).InexactFloat64()
}

// SpentByCategory indexes grouped expense totals by category
func SpentByCategory(summaries []models.CategorySummary) map[string]decimal.Decimal {
	spent := make(map[string]decimal.Decimal, len(summaries))
	for _, s := range summaries {
		spent[s.Category] = s.TotalAmount
	}
	return spent
}

// BuildBudgetProgress returns one entry per budget, in budget order.
// Categories missing from spent count as zero.
func BuildBudgetProgress(budgets []models.Budget, spent map[string]decimal.Decimal) []models.BudgetProgress {
	progress := make([]models.BudgetProgress, 0, len(budgets))
	for _, b := range budgets {
		amount := spentFor(spent, b.Category)
		progress = append(progress, models.BudgetProgress{
			Category:   b.Category,
			Limit:      b.LimitAmount,
			Spent:      amount,
			Percentage: Percentage(amount, b.LimitAmount),
		})
	}
	return progress
}

// BuildSpendingBreakdown turns grouped month totals into shares of the
// month's spending. With no spending the denominator is one, so every
// present category gets 0.
func BuildSpendingBreakdown(totals []models.CategorySummary, budgets []models.Budget) []models.CategorySpending {
	total := decimal.Zero
	for _, t := range totals {
		total = total.Add(t.TotalAmount)
	}
	if total.IsZero() {
		total = decimal.NewFromInt(1)
	}

	limits := make(map[string]decimal.Decimal, len(budgets))
	for _, b := range budgets {
		limits[b.Category] = b.LimitAmount
	}

	breakdown := make([]models.CategorySpending, 0, len(totals))
	for _, t := range totals {
		item := models.CategorySpending{
			Category:   t.Category,
			Amount:     t.TotalAmount.Round(2),
			Percentage: Percentage(t.TotalAmount, total),
		}
		if limit, ok := limits[t.Category]; ok {
			item.BudgetLimit = &limit
		}
		breakdown = append(breakdown, item)
	}
	return breakdown
}

// BuildSpendingTrend sums expenses per calendar date, ascending. Dates
// without expenses are left out.
func BuildSpendingTrend(expenses []models.Transaction) []models.DailyTotal {
	byDate := make(map[string]*models.DailyTotal)
	for _, t := range expenses {
		if !t.IsExpense() {
			continue
		}
		key := models.FormatDate(t.Date)
		day, ok := byDate[key]
		if !ok {
			day = &models.DailyTotal{Date: models.DateOnly(t.Date), Amount: decimal.Zero}
			byDate[key] = day
		}
		day.Amount = day.Amount.Add(t.Amount)
	}

	trend := make([]models.DailyTotal, 0, len(byDate))
	for _, day := range byDate {
		trend = append(trend, *day)
	}
	slices.SortFunc(trend, func(a, b models.DailyTotal) int {
		return a.Date.Compare(b.Date)
	})
	return trend
}

// BuildSpendingVsBudget compares each budget against the month's spending
// in its category. The result is aligned with budgets.
func BuildSpendingVsBudget(budgets []models.Budget, spent map[string]decimal.Decimal) []models.BudgetComparison {
	comparisons := make([]models.BudgetComparison, 0, len(budgets))
	for _, b := range budgets {
		amount := spentFor(spent, b.Category)
		comparisons = append(comparisons, models.BudgetComparison{
			BudgetID:   b.ID.String(),
			Category:   b.Category,
			Limit:      b.LimitAmount,
			Spent:      amount,
			Remaining:  b.LimitAmount.Sub(amount),
			Percentage: Percentage(amount, b.LimitAmount),
			OverBudget: amount.GreaterThan(b.LimitAmount),
		})
	}
	return comparisons
}

func spentFor(spent map[string]decimal.Decimal, category string) decimal.Decimal {
	if amount, ok := spent[category]; ok {
		return amount.Round(2)
	}
	return decimal.Zero
}
