package handlers

import (
	"fintrack/internal/dto"
	"fintrack/internal/models"

	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toUserProfile(u *models.User) dto.UserProfileResponse {
	return dto.UserProfileResponse{
		ID:         u.ID.String(),
		Username:   u.Email,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		DateJoined: u.CreatedAt,
	}
}

func toTransactionResponse(t *models.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:          t.ID.String(),
		Type:        t.Type,
		Category:    t.Category,
		Amount:      money(t.Amount),
		Description: t.Description,
		Date:        models.FormatDate(t.Date),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTransactionResponses(transactions []models.Transaction) []dto.TransactionResponse {
	out := make([]dto.TransactionResponse, 0, len(transactions))
	for i := range transactions {
		out = append(out, toTransactionResponse(&transactions[i]))
	}
	return out
}

func toBudgetResponse(b *models.Budget) dto.BudgetResponse {
	return dto.BudgetResponse{
		ID:          b.ID.String(),
		Category:    b.Category,
		LimitAmount: money(b.LimitAmount),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toBudgetResponses(budgets []models.Budget) []dto.BudgetResponse {
	out := make([]dto.BudgetResponse, 0, len(budgets))
	for i := range budgets {
		out = append(out, toBudgetResponse(&budgets[i]))
	}
	return out
}

func toComparisonResponses(rows []models.BudgetComparison) []dto.BudgetComparisonResponse {
	out := make([]dto.BudgetComparisonResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.BudgetComparisonResponse{
			BudgetID:   r.BudgetID,
			Category:   r.Category,
			Limit:      money(r.Limit),
			Spent:      money(r.Spent),
			Remaining:  money(r.Remaining),
			Percentage: r.Percentage,
			OverBudget: r.OverBudget,
		})
	}
	return out
}

func toOverviewResponse(o *models.Overview) dto.OverviewResponse {
	progress := make([]dto.BudgetProgressResponse, 0, len(o.BudgetProgress))
	for _, p := range o.BudgetProgress {
		progress = append(progress, dto.BudgetProgressResponse{
			Category:   p.Category,
			Limit:      money(p.Limit),
			Spent:      money(p.Spent),
			Percentage: p.Percentage,
		})
	}

	return dto.OverviewResponse{
		AsOf:              models.FormatDate(o.AsOf),
		TotalExpenses:     money(o.TotalExpenses),
		TotalIncome:       money(o.TotalIncome),
		NetBalance:        money(o.NetBalance),
		ThisMonthSpending: money(o.ThisMonthSpending),
		BudgetProgress:    progress,
	}
}

func toBreakdownResponses(items []models.CategorySpending) []dto.CategorySpendingResponse {
	out := make([]dto.CategorySpendingResponse, 0, len(items))
	for _, item := range items {
		resp := dto.CategorySpendingResponse{
			Category:   item.Category,
			Amount:     money(item.Amount),
			Percentage: item.Percentage,
		}
		if item.BudgetLimit != nil {
			limit := money(*item.BudgetLimit)
			resp.BudgetLimit = &limit
		}
		out = append(out, resp)
	}
	return out
}

func toTrendResponses(points []models.DailyTotal) []dto.TrendPointResponse {
	out := make([]dto.TrendPointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, dto.TrendPointResponse{
			Date:   models.FormatDate(p.Date),
			Amount: money(p.Amount),
		})
	}
	return out
}

func toActivityResponses(logs []*models.AuditLog) []dto.ActivityEntryResponse {
	out := make([]dto.ActivityEntryResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.ActivityEntryResponse{
			ID:        l.ID.String(),
			Action:    l.Action,
			Resource:  l.Resource,
			IPAddress: l.IPAddress,
			UserAgent: l.UserAgent,
			Metadata:  l.Metadata,
			CreatedAt: l.CreatedAt,
		})
	}
	return out
}
