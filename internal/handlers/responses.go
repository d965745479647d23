package handlers

import (
	"net/http"

	"fintrack/internal/errors"
	"fintrack/internal/validation"

	"github.com/labstack/echo/v4"
)

// STANDARDIZED ERROR HANDLING PATTERNS
//
// All handlers must use the following standardized error response functions:
//
// 1. SendError - For client errors and business logic errors (4xx responses)
//    Use cases:
//    - Validation errors: SendError(c, errors.ValidationGeneral, errors.WithDetails("..."))
//    - Authentication errors: SendError(c, errors.AuthInvalidCredentials)
//    - Not found errors: SendError(c, errors.TransactionNotFound)
//    - Business rule violations: SendError(c, errors.BudgetCategoryExists)
//
// 2. SendValidationError - For validator failures, renders {field: message}
//
// 3. SendSystemError - For system/internal errors (500 responses)
//    Use cases:
//    - Database errors from repositories
//    - Service layer internal errors
//    - Unexpected errors that should not expose internal details to client
//
// DO NOT USE:
//    - echo.NewHTTPError() - Use SendError or SendSystemError instead
//    - Direct c.JSON() for errors - Use the helper functions
//    - return err without wrapping - Use SendSystemError to protect internal details

const (
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"
)

// SuccessResponse represents a standard success response
// Used for successful API responses with data, messages, and metadata
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorResponse is an alias for the standardized error response type
type ErrorResponse = errors.ErrorResponse

// getTraceID extracts the trace ID from the Echo context
func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SendData writes data inside the success envelope
func SendData(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, SuccessResponse{Data: data})
}

// SendError sends a standardized error response with trace ID from context
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	traceID := getTraceID(c)
	errorResponse := errors.NewErrorResponse(code, traceID, opts...)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendValidationError renders validator failures field by field. Errors that
// are not validator errors fall back to a general validation error.
func SendValidationError(c echo.Context, err error) error {
	fields := validation.FieldErrors(err)
	if fields == nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}
	return c.JSON(http.StatusBadRequest, errors.NewValidationError(fields, getTraceID(c)))
}

// SendSystemError wraps a system error with generic message and logs the internal error
func SendSystemError(c echo.Context, err error) error {
	traceID := getTraceID(c)
	errorResponse, internal := errors.WrapSystemError(err, traceID)
	c.Logger().Errorf("trace_id=%s internal error: %v", traceID, internal)
	return c.JSON(http.StatusInternalServerError, errorResponse)
}
