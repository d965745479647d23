package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/services"

	"github.com/labstack/echo/v4"
)

// unmatchedRoute labels requests that hit no route, keeping path cardinality bounded
const unmatchedRoute = "unmatched"

// RequestMetrics counts requests by method, route and status and observes
// their duration
func RequestMetrics(metrics services.MetricsRecorderInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				// The error handler has not written yet; report what it will send.
				status = http.StatusInternalServerError
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				}
			}

			path := c.Path()
			if path == "" {
				path = unmatchedRoute
			}

			metrics.IncrementCounter(services.MetricHTTPRequest, map[string]string{
				"method": c.Request().Method,
				"path":   path,
				"status": strconv.Itoa(status),
			})
			metrics.RecordProcessingTime(services.MetricHTTPRequestDuration, time.Since(start))

			return err
		}
	}
}
