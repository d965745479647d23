package handlers

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"fintrack/internal/config"
	"fintrack/internal/dto"
	"fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService services.TransactionServiceInterface
	ledger             config.LedgerConfig
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService services.TransactionServiceInterface, ledger config.LedgerConfig) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		ledger:             ledger,
	}
}

// ListTransactions retrieves the caller's transactions with filtering
// @Summary List transactions
// @Description Paginated transactions of the caller, newest date first
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param type query string false "Filter by type" Enums(expense, income)
// @Param category query string false "Filter by category"
// @Param start_date query string false "Inclusive start date (YYYY-MM-DD), requires end_date"
// @Param end_date query string false "Inclusive end date (YYYY-MM-DD), requires start_date"
// @Param current_month query bool false "Only the current month"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset"
// @Success 200 {object} SuccessResponse{data=[]dto.TransactionResponse,meta=dto.PaginationInfo} "Transactions"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 or VALIDATION_006"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.TransactionListQuery
	if err := c.Bind(&query); err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid query parameters"))
	}
	if err := c.Validate(query); err != nil {
		return SendValidationError(c, err)
	}

	filters, err := parseTransactionFilters(query)
	if err != nil {
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails(err.Error()))
	}

	transactions, total, err := h.transactionService.List(c.Request().Context(), userID, filters)
	if err != nil {
		return mapTransactionErr(c, err)
	}

	limit := h.ledger.PageSize(filters.Limit)
	return c.JSON(http.StatusOK, SuccessResponse{
		Data: toTransactionResponses(transactions),
		Meta: dto.PaginationInfo{
			Total:   total,
			Limit:   limit,
			Offset:  filters.Offset,
			HasMore: int64(filters.Offset+len(transactions)) < total,
		},
	})
}

// CreateTransaction records a new transaction for the caller
// @Summary Create transaction
// @Tags Transactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.TransactionRequest true "Transaction"
// @Success 201 {object} SuccessResponse{data=dto.TransactionResponse} "Created"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_*, TRANSACTION_002 or TRANSACTION_003"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	input, ok, err := bindTransactionInput(c)
	if !ok {
		return err
	}

	transaction, err := h.transactionService.Create(c.Request().Context(), userID, input)
	if err != nil {
		return mapTransactionErr(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    toTransactionResponse(transaction),
		Message: "Transaction created successfully",
	})
}

// GetTransaction returns one of the caller's transactions
// @Summary Get transaction
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Transaction ID (UUID)"
// @Success 200 {object} SuccessResponse{data=dto.TransactionResponse} "Transaction"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_003 - Invalid transaction ID"
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001 - Transaction not found"
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	id, err := getIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid transaction ID"))
	}

	transaction, err := h.transactionService.Get(c.Request().Context(), userID, id)
	if err != nil {
		return mapTransactionErr(c, err)
	}

	return SendData(c, http.StatusOK, toTransactionResponse(transaction))
}

// UpdateTransaction fully replaces one of the caller's transactions
// @Summary Update transaction
// @Tags Transactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID (UUID)"
// @Param request body dto.TransactionRequest true "Transaction"
// @Success 200 {object} SuccessResponse{data=dto.TransactionResponse} "Updated"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_*, TRANSACTION_002 or TRANSACTION_003"
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001 - Transaction not found"
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	id, err := getIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid transaction ID"))
	}

	input, ok, err := bindTransactionInput(c)
	if !ok {
		return err
	}

	transaction, err := h.transactionService.Update(c.Request().Context(), userID, id, input)
	if err != nil {
		return mapTransactionErr(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data:    toTransactionResponse(transaction),
		Message: "Transaction updated successfully",
	})
}

// DeleteTransaction removes one of the caller's transactions
// @Summary Delete transaction
// @Tags Transactions
// @Security BearerAuth
// @Param id path string true "Transaction ID (UUID)"
// @Success 204 "Deleted"
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001 - Transaction not found"
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	id, err := getIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid transaction ID"))
	}

	if err := h.transactionService.Delete(c.Request().Context(), userID, id); err != nil {
		return mapTransactionErr(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Categories lists the allowed categories per type
// @Summary Transaction categories
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=dto.CategoriesResponse} "Categories"
// @Router /transactions/categories [get]
func (h *TransactionHandler) Categories(c echo.Context) error {
	return SendData(c, http.StatusOK, dto.CategoriesResponse{
		Expense: models.ExpenseCategories(),
		Income:  models.IncomeCategories(),
		Budget:  models.ExpenseCategories(),
	})
}

// ByCategory lists the caller's transactions in one category
// @Summary Transactions by category
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param category query string true "Category"
// @Success 200 {object} SuccessResponse{data=[]dto.TransactionResponse} "Transactions"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Missing or unknown category"
// @Router /transactions/by_category [get]
func (h *TransactionHandler) ByCategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.CategoryQuery
	if err := c.Bind(&query); err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid query parameters"))
	}
	if err := c.Validate(query); err != nil {
		return SendValidationError(c, err)
	}

	transactions, err := h.transactionService.ByCategory(c.Request().Context(), userID, query.Category)
	if err != nil {
		return mapTransactionErr(c, err)
	}

	return SendData(c, http.StatusOK, toTransactionResponses(transactions))
}

// ByDateRange lists the caller's transactions between two inclusive dates
// @Summary Transactions by date range
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} SuccessResponse{data=[]dto.TransactionResponse} "Transactions"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 or VALIDATION_006"
// @Router /transactions/by_date_range [get]
func (h *TransactionHandler) ByDateRange(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.DateRangeQuery
	if err := c.Bind(&query); err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid query parameters"))
	}
	if err := c.Validate(query); err != nil {
		return SendValidationError(c, err)
	}

	start, err := models.ParseDate(query.StartDate)
	if err != nil {
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails(err.Error()))
	}
	end, err := models.ParseDate(query.EndDate)
	if err != nil {
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails(err.Error()))
	}

	transactions, err := h.transactionService.ByDateRange(c.Request().Context(), userID, models.DateRange{Start: start, End: end})
	if err != nil {
		return mapTransactionErr(c, err)
	}

	return SendData(c, http.StatusOK, toTransactionResponses(transactions))
}

// bindTransactionInput binds and validates the request body. When ok is
// false the error response has already been written and err is its result.
func bindTransactionInput(c echo.Context) (input models.TransactionInput, ok bool, err error) {
	var req dto.TransactionRequest
	if err := c.Bind(&req); err != nil {
		return input, false, SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return input, false, SendValidationError(c, err)
	}

	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		return input, false, SendError(c, errors.TransactionInvalidAmount, errors.WithDetails(err.Error()))
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return input, false, SendError(c, errors.ValidationInvalidDate, errors.WithDetails(err.Error()))
	}

	return models.TransactionInput{
		Type:        req.Type,
		Category:    req.Category,
		Amount:      amount,
		Description: req.Description,
		Date:        date,
	}, true, nil
}

func parseTransactionFilters(query dto.TransactionListQuery) (models.TransactionFilters, error) {
	filters := models.TransactionFilters{
		Type:         query.Type,
		Category:     query.Category,
		CurrentMonth: query.CurrentMonth,
		Limit:        query.Limit,
		Offset:       query.Offset,
	}

	if query.StartDate != "" {
		start, err := models.ParseDate(query.StartDate)
		if err != nil {
			return filters, fmt.Errorf("invalid start_date: %w", err)
		}
		filters.StartDate = &start
	}
	if query.EndDate != "" {
		end, err := models.ParseDate(query.EndDate)
		if err != nil {
			return filters, fmt.Errorf("invalid end_date: %w", err)
		}
		filters.EndDate = &end
	}

	return filters, nil
}

func mapTransactionErr(c echo.Context, err error) error {
	switch {
	case stderrors.Is(err, services.ErrTransactionNotFound):
		return SendError(c, errors.TransactionNotFound)
	case stderrors.Is(err, services.ErrDateRangeIncomplete), stderrors.Is(err, services.ErrInvalidDateRange):
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails(err.Error()))
	case stderrors.Is(err, services.ErrUnknownCategory), stderrors.Is(err, models.ErrInvalidCategory):
		return SendError(c, errors.ValidationInvalidCategory, errors.WithDetails(err.Error()))
	case stderrors.Is(err, models.ErrNegativeAmount), stderrors.Is(err, models.ErrAmountPrecision):
		return SendError(c, errors.TransactionInvalidAmount, errors.WithDetails(err.Error()))
	case stderrors.Is(err, models.ErrInvalidTransactionType):
		return SendError(c, errors.TransactionInvalidType)
	case stderrors.Is(err, services.ErrInvalidTransaction):
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}
	return SendSystemError(c, err)
}
