package middleware

import (
	"fintrack/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// TraceIDHeader is the header name for the trace ID
	TraceIDHeader = "X-Trace-ID"
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"

	maxTraceIDLength = 128
)

// RequestID is a middleware that generates a unique trace ID for each request
// and sets it in the response header, the echo context and the request
// context used by services for log correlation
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()

			traceID := req.Header.Get(TraceIDHeader)
			if traceID == "" || len(traceID) > maxTraceIDLength {
				traceID = uuid.New().String()
			}

			c.Set(TraceIDContextKey, traceID)
			c.SetRequest(req.WithContext(services.WithRequestID(req.Context(), traceID)))
			res.Header().Set(TraceIDHeader, traceID)
			return next(c)
		}
	}
}

// GetTraceID extracts the trace ID from the Echo context
// Returns empty string if not found
func GetTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}
