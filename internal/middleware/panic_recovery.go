package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"fintrack/internal/errors"

	"github.com/labstack/echo/v4"
)

// PanicRecovery is a middleware that recovers from panics and returns a standardized error response
func PanicRecovery(logger *slog.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				traceID := GetTraceID(c)
				if traceID == "" {
					traceID = "unknown"
				}

				logger.Error("Panic recovered",
					"trace_id", traceID,
					"panic", fmt.Sprintf("%v", r),
					"stack_trace", string(debug.Stack()),
					"path", c.Request().URL.Path,
					"method", c.Request().Method,
				)

				if c.Response().Committed {
					return
				}

				errorResponse := errors.NewErrorResponse(errors.SystemInternalError, traceID)
				if sendErr := c.JSON(http.StatusInternalServerError, errorResponse); sendErr != nil {
					logger.Error("Failed to send panic recovery response",
						"trace_id", traceID,
						"error", sendErr.Error(),
					)
				}
				err = nil
			}()

			return next(c)
		}
	}
}
