package handlers

import (
	stderrors "errors"
	"net/http"

	"fintrack/internal/dto"
	"fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget endpoints
type BudgetHandler struct {
	budgetService services.BudgetServiceInterface
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(budgetService services.BudgetServiceInterface) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// ListBudgets returns the caller's budgets, most recently updated first
// @Summary List budgets
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]dto.BudgetResponse} "Budgets"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Router /budgets [get]
func (h *BudgetHandler) ListBudgets(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgets, err := h.budgetService.List(c.Request().Context(), userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return SendData(c, http.StatusOK, toBudgetResponses(budgets))
}

// CreateBudget sets a monthly limit for an expense category
// @Summary Create budget
// @Tags Budgets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.BudgetRequest true "Budget"
// @Success 201 {object} SuccessResponse{data=dto.BudgetResponse} "Created"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001, VALIDATION_009 or BUDGET_003"
// @Failure 409 {object} errors.ErrorResponse "BUDGET_002 - Category already budgeted"
// @Router /budgets [post]
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	input, ok, err := bindBudgetInput(c)
	if !ok {
		return err
	}

	budget, err := h.budgetService.Create(c.Request().Context(), userID, input)
	if err != nil {
		return mapBudgetErr(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    toBudgetResponse(budget),
		Message: "Budget created successfully",
	})
}

// GetBudget returns one of the caller's budgets
// @Summary Get budget
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Param id path string true "Budget ID (UUID)"
// @Success 200 {object} SuccessResponse{data=dto.BudgetResponse} "Budget"
// @Failure 404 {object} errors.ErrorResponse "BUDGET_001 - Budget not found"
// @Router /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	id, err := getIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid budget ID"))
	}

	budget, err := h.budgetService.Get(c.Request().Context(), userID, id)
	if err != nil {
		return mapBudgetErr(c, err)
	}

	return SendData(c, http.StatusOK, toBudgetResponse(budget))
}

// UpdateBudget fully replaces one of the caller's budgets
// @Summary Update budget
// @Tags Budgets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Budget ID (UUID)"
// @Param request body dto.BudgetRequest true "Budget"
// @Success 200 {object} SuccessResponse{data=dto.BudgetResponse} "Updated"
// @Failure 404 {object} errors.ErrorResponse "BUDGET_001 - Budget not found"
// @Failure 409 {object} errors.ErrorResponse "BUDGET_002 - Category already budgeted"
// @Router /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	id, err := getIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid budget ID"))
	}

	input, ok, err := bindBudgetInput(c)
	if !ok {
		return err
	}

	budget, err := h.budgetService.Update(c.Request().Context(), userID, id, input)
	if err != nil {
		return mapBudgetErr(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data:    toBudgetResponse(budget),
		Message: "Budget updated successfully",
	})
}

// DeleteBudget removes one of the caller's budgets
// @Summary Delete budget
// @Tags Budgets
// @Security BearerAuth
// @Param id path string true "Budget ID (UUID)"
// @Success 204 "Deleted"
// @Failure 404 {object} errors.ErrorResponse "BUDGET_001 - Budget not found"
// @Router /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	id, err := getIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid budget ID"))
	}

	if err := h.budgetService.Delete(c.Request().Context(), userID, id); err != nil {
		return mapBudgetErr(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// SpendingVsBudget compares every budget with this month's spending
// @Summary Spending vs budget
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]dto.BudgetComparisonResponse} "Comparison"
// @Router /budgets/spending_vs_budget [get]
func (h *BudgetHandler) SpendingVsBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	rows, err := h.budgetService.SpendingVsBudget(c.Request().Context(), userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return SendData(c, http.StatusOK, toComparisonResponses(rows))
}

// bindBudgetInput follows bindTransactionInput: ok false means the response
// has been written.
func bindBudgetInput(c echo.Context) (input models.BudgetInput, ok bool, err error) {
	var req dto.BudgetRequest
	if err := c.Bind(&req); err != nil {
		return input, false, SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return input, false, SendValidationError(c, err)
	}

	limit, err := decimal.NewFromString(req.LimitAmount.String())
	if err != nil {
		return input, false, SendError(c, errors.BudgetInvalidLimit, errors.WithDetails(err.Error()))
	}

	return models.BudgetInput{Category: req.Category, LimitAmount: limit}, true, nil
}

func mapBudgetErr(c echo.Context, err error) error {
	switch {
	case stderrors.Is(err, services.ErrBudgetNotFound):
		return SendError(c, errors.BudgetNotFound)
	case stderrors.Is(err, services.ErrBudgetCategoryExists):
		return SendError(c, errors.BudgetCategoryExists)
	case stderrors.Is(err, models.ErrInvalidBudgetCategory), stderrors.Is(err, models.ErrCategoryRequired):
		return SendError(c, errors.ValidationInvalidCategory, errors.WithDetails(err.Error()))
	case stderrors.Is(err, models.ErrNegativeAmount), stderrors.Is(err, models.ErrAmountPrecision):
		return SendError(c, errors.BudgetInvalidLimit, errors.WithDetails(err.Error()))
	case stderrors.Is(err, services.ErrInvalidBudget):
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}
	return SendSystemError(c, err)
}
