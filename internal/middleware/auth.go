package middleware

import (
	stderrors "errors"

	"fintrack/internal/errors"
	"fintrack/internal/handlers"
	"fintrack/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequireAuth creates a middleware that requires a valid access token.
// Refresh tokens presented as bearer credentials are rejected.
func RequireAuth(tokenService services.TokenServiceInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return handlers.SendError(c, errors.AuthMissingToken)
			}

			token, err := tokenService.ExtractTokenFromHeader(authHeader)
			if err != nil {
				return handlers.SendError(c, errors.AuthInvalidTokenFormat)
			}

			claims, err := tokenService.ValidateAccessToken(token)
			if err != nil {
				switch {
				case stderrors.Is(err, services.ErrExpiredToken):
					return handlers.SendError(c, errors.AuthExpiredToken)
				case stderrors.Is(err, services.ErrInvalidTokenType):
					return handlers.SendError(c, errors.AuthWrongTokenType)
				}
				return handlers.SendError(c, errors.AuthInvalidTokenFormat)
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return handlers.SendError(c, errors.AuthInvalidTokenFormat, errors.WithDetails("Invalid user ID in token"))
			}

			c.Set("user_id", userID)
			c.Set("user_email", claims.Email)
			c.Set("token_jti", claims.ID)

			return next(c)
		}
	}
}
