package handlers

import (
	"net/http"

	"fintrack/internal/dto"
	"fintrack/internal/errors"
	"fintrack/internal/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandler serves the read-only aggregate endpoints
type DashboardHandler struct {
	dashboardService services.DashboardServiceInterface
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService services.DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Overview returns all-time totals, this month's spending and budget progress
// @Summary Dashboard overview
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=dto.OverviewResponse} "Overview"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Router /dashboard/overview [get]
func (h *DashboardHandler) Overview(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	overview, err := h.dashboardService.Overview(c.Request().Context(), userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return SendData(c, http.StatusOK, toOverviewResponse(overview))
}

// SpendingBreakdown returns this month's expenses per category
// @Summary Spending breakdown
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]dto.CategorySpendingResponse} "Breakdown"
// @Router /dashboard/spending_breakdown [get]
func (h *DashboardHandler) SpendingBreakdown(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	items, err := h.dashboardService.SpendingBreakdown(c.Request().Context(), userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return SendData(c, http.StatusOK, toBreakdownResponses(items))
}

// SpendingTrend returns daily expense totals for the trailing window
// @Summary Spending trend
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Param days query int false "Window length in days" default(30)
// @Success 200 {object} SuccessResponse{data=[]dto.TrendPointResponse} "Trend"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid days"
// @Router /dashboard/spending_trend [get]
func (h *DashboardHandler) SpendingTrend(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.TrendQuery
	if err := c.Bind(&query); err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid query parameters"))
	}
	if err := c.Validate(query); err != nil {
		return SendValidationError(c, err)
	}

	points, err := h.dashboardService.SpendingTrend(c.Request().Context(), userID, query.Days)
	if err != nil {
		return SendSystemError(c, err)
	}

	return SendData(c, http.StatusOK, toTrendResponses(points))
}

// RecentTransactions returns the caller's latest transactions
// @Summary Recent transactions
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Number of transactions" default(10)
// @Success 200 {object} SuccessResponse{data=[]dto.TransactionResponse} "Transactions"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid limit"
// @Router /dashboard/recent_transactions [get]
func (h *DashboardHandler) RecentTransactions(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.RecentQuery
	if err := c.Bind(&query); err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid query parameters"))
	}
	if err := c.Validate(query); err != nil {
		return SendValidationError(c, err)
	}

	transactions, err := h.dashboardService.RecentTransactions(c.Request().Context(), userID, query.Limit)
	if err != nil {
		return SendSystemError(c, err)
	}

	return SendData(c, http.StatusOK, toTransactionResponses(transactions))
}
