package handlers

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ErrUnauthorized is returned when user context is invalid
var ErrUnauthorized = fmt.Errorf("unauthorized")

// Helper function to extract user ID from context
// Returns ErrUnauthorized if user ID is missing or invalid
func getUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	userIDValue := c.Get("user_id")
	if userIDValue == nil {
		return uuid.UUID{}, ErrUnauthorized
	}

	userID, ok := userIDValue.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.UUID{}, ErrUnauthorized
	}

	return userID, nil
}

// getIDParam parses a UUID path parameter
func getIDParam(c echo.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

func getClientIP(c echo.Context) string {
	xff := c.Request().Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	xri := c.Request().Header.Get("X-Real-IP")
	if xri != "" {
		return xri
	}

	return c.Request().RemoteAddr
}
