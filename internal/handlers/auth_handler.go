package handlers

import (
	stderrors "errors"
	"net/http"

	"fintrack/internal/dto"
	"fintrack/internal/errors"
	"fintrack/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	defaultActivityLimit = 20

	logoutMessage = "Successfully logged out. Please delete your tokens."
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService services.AuthServiceInterface
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService services.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create a new user and return an access/refresh token pair
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration details"
// @Success 201 {object} SuccessResponse{data=dto.AuthResponse} "User created successfully"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001, VALIDATION_007, VALIDATION_008 or VALIDATION_010"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest

	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendValidationError(c, err)
	}

	user, tokens, err := h.authService.Register(c.Request().Context(), &req, getClientIP(c), c.Request().UserAgent())
	if err != nil {
		switch {
		case stderrors.Is(err, services.ErrPasswordMismatch):
			return SendError(c, errors.ValidationPasswordMismatch)
		case stderrors.Is(err, services.ErrWeakPassword):
			return SendError(c, errors.ValidationWeakPassword, errors.WithDetails(err.Error()))
		case stderrors.Is(err, services.ErrEmailRegistered):
			return SendError(c, errors.ValidationEmailRegistered)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    dto.AuthResponse{TokenResponse: *tokens, User: toUserProfile(user)},
		Message: "User registered successfully",
	})
}

// Login handles user authentication
// @Summary Login user
// @Description Authenticate with email and password, receive JWT access and refresh tokens
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} SuccessResponse{data=dto.AuthResponse} "Login successful"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001"
// @Failure 401 {object} errors.ErrorResponse "AUTH_001 - Invalid credentials"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest

	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendValidationError(c, err)
	}

	user, tokens, err := h.authService.Login(c.Request().Context(), &req, getClientIP(c), c.Request().UserAgent())
	if err != nil {
		if stderrors.Is(err, services.ErrInvalidCredentials) {
			return SendError(c, errors.AuthInvalidCredentials)
		}
		return SendSystemError(c, err)
	}

	return SendData(c, http.StatusOK, dto.AuthResponse{TokenResponse: *tokens, User: toUserProfile(user)})
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Description Exchange a refresh token for a new pair. The presented token is revoked.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} SuccessResponse{data=dto.TokenResponse} "Token refreshed successfully"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001"
// @Failure 401 {object} errors.ErrorResponse "AUTH_005 - Invalid, expired or reused refresh token"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /auth/token/refresh [post]
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req dto.RefreshTokenRequest

	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendValidationError(c, err)
	}

	tokens, err := h.authService.RefreshTokens(c.Request().Context(), req.Refresh, getClientIP(c), c.Request().UserAgent())
	if err != nil {
		if stderrors.Is(err, services.ErrInvalidRefreshToken) {
			return SendError(c, errors.AuthInvalidRefreshToken)
		}
		return SendSystemError(c, err)
	}

	return SendData(c, http.StatusOK, tokens)
}

// Logout handles user logout
// @Summary Logout user
// @Description Acknowledge logout. Clients discard their tokens.
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{message=string} "Logout successful"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	// Logout always succeeds; the service only records it.
	_ = h.authService.Logout(c.Request().Context(), userID, getClientIP(c), c.Request().UserAgent())

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: logoutMessage,
	})
}

// Me returns the caller's profile
// @Summary Current user profile
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=dto.UserProfileResponse} "Profile"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Failure 404 {object} errors.ErrorResponse "USER_001 - User not found"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	user, err := h.authService.Me(c.Request().Context(), userID)
	if err != nil {
		if stderrors.Is(err, services.ErrUserNotFound) {
			return SendError(c, errors.UserNotFound)
		}
		return SendSystemError(c, err)
	}

	return SendData(c, http.StatusOK, toUserProfile(user))
}

// Activity returns the caller's audit trail, newest first
// @Summary Current user activity
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} SuccessResponse{data=[]dto.ActivityEntryResponse,meta=dto.PaginationInfo} "Activity"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Router /auth/me/activity [get]
func (h *AuthHandler) Activity(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.ActivityQuery
	if err := c.Bind(&query); err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid query parameters"))
	}
	if err := c.Validate(query); err != nil {
		return SendValidationError(c, err)
	}
	if query.Limit == 0 {
		query.Limit = defaultActivityLimit
	}

	logs, total, err := h.authService.Activity(c.Request().Context(), userID, query.Offset, query.Limit)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: toActivityResponses(logs),
		Meta: dto.PaginationInfo{
			Total:   total,
			Limit:   query.Limit,
			Offset:  query.Offset,
			HasMore: int64(query.Offset+len(logs)) < total,
		},
	})
}

// DeleteMe removes the caller with all of their data
// @Summary Delete current user
// @Tags Authentication
// @Security BearerAuth
// @Success 204 "Deleted"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Failure 404 {object} errors.ErrorResponse "USER_001 - User not found"
// @Router /auth/me [delete]
func (h *AuthHandler) DeleteMe(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	if err := h.authService.DeleteAccount(c.Request().Context(), userID, getClientIP(c), c.Request().UserAgent()); err != nil {
		if stderrors.Is(err, services.ErrUserNotFound) {
			return SendError(c, errors.UserNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
