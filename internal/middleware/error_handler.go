package middleware

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"fintrack/internal/errors"
	"fintrack/internal/services"
	"fintrack/internal/validation"

	"github.com/labstack/echo/v4"
)

// NewHTTPErrorHandler formats errors that reach echo as standardized error
// responses, logs them and counts them by code
func NewHTTPErrorHandler(logger *slog.Logger, metrics services.MetricsRecorderInterface) echo.HTTPErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		traceID := GetTraceID(c)
		if traceID == "" {
			traceID = "unknown"
		}

		errorResponse, httpStatus := buildErrorResponse(err, traceID)

		logLevel := slog.LevelWarn
		if httpStatus >= http.StatusInternalServerError {
			logLevel = slog.LevelError
		}

		logger.Log(c.Request().Context(), logLevel, "HTTP error occurred",
			"trace_id", traceID,
			"error_code", errorResponse.Error.Code,
			"status", httpStatus,
			"message", errorResponse.Error.Message,
			"path", c.Request().URL.Path,
			"method", c.Request().Method,
			"error", err.Error(),
		)

		if metrics != nil {
			metrics.IncrementCounter(services.MetricAPIError, map[string]string{
				"code":   errorResponse.Error.Code,
				"status": strconv.Itoa(httpStatus),
			})
		}

		var sendErr error
		if c.Request().Method == http.MethodHead {
			sendErr = c.NoContent(httpStatus)
		} else {
			sendErr = c.JSON(httpStatus, errorResponse)
		}
		if sendErr != nil {
			logger.Error("Failed to send error response",
				"trace_id", traceID,
				"error", sendErr.Error(),
			)
		}
	}
}

func buildErrorResponse(err error, traceID string) (*errors.ErrorResponse, int) {
	var echoErr *echo.HTTPError
	if stderrors.As(err, &echoErr) {
		errorCode := mapHTTPStatusToErrorCode(echoErr.Code)
		return errors.NewErrorResponse(
			errorCode,
			traceID,
			errors.WithMessage(fmt.Sprintf("%v", echoErr.Message)),
		), echoErr.Code
	}

	if fields := validation.FieldErrors(err); fields != nil {
		return errors.NewValidationError(fields, traceID), http.StatusBadRequest
	}

	errorResponse, _ := errors.WrapSystemError(err, traceID)
	return errorResponse, errorResponse.GetHTTPStatus()
}

// mapHTTPStatusToErrorCode maps HTTP status codes to error codes
func mapHTTPStatusToErrorCode(status int) errors.ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusMethodNotAllowed, http.StatusUnprocessableEntity,
		http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return errors.ValidationGeneral
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.AuthMissingToken
	case http.StatusNotFound:
		return errors.SystemNotFound
	case http.StatusTooManyRequests:
		return errors.SystemRateLimitExceeded
	case http.StatusInternalServerError:
		return errors.SystemInternalError
	case http.StatusServiceUnavailable:
		return errors.SystemServiceUnavailable
	default:
		return errors.SystemUnexpectedError
	}
}
