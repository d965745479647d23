package handlers

import (
	"context"
	"net/http"
	"time"

	"fintrack/internal/errors"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const healthPingTimeout = 2 * time.Second

// HealthCheckHandler handles the health check endpoint
type HealthCheckHandler struct {
	db *gorm.DB
}

// NewHealthCheckHandler creates a new health check handler
func NewHealthCheckHandler(db *gorm.DB) *HealthCheckHandler {
	return &HealthCheckHandler{db: db}
}

// HealthCheck reports API and database status
// @Summary Health check
// @Description Check API and database connectivity status
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string,database=string,time=string} "Service is healthy"
// @Failure 503 {object} errors.ErrorResponse "SYSTEM_003 - Service unavailable (database connection failed)"
// @Router /health [get]
func (h *HealthCheckHandler) HealthCheck(c echo.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return SendError(c, errors.SystemServiceUnavailable, errors.WithDetails("Database connection failed"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return SendError(c, errors.SystemServiceUnavailable, errors.WithDetails("Database connection failed"))
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":   "healthy",
		"database": "connected",
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}
