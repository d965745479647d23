package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailRegistered     = errors.New("a user with this email already exists")
	ErrWeakPassword        = errors.New("password does not meet requirements")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUserNotFound        = errors.New("user not found")
)

const (
	authOutcomeSuccess = "success"
	authOutcomeFailure = "failure"
)

// AuthService handles registration, login and refresh token rotation
type AuthService struct {
	userRepo         repositories.UserRepositoryInterface
	refreshTokenRepo repositories.RefreshTokenRepositoryInterface
	auditRepo        repositories.AuditLogRepositoryInterface
	passwordService  PasswordServiceInterface
	tokenService     TokenServiceInterface
	metrics          MetricsRecorderInterface
	logger           *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	refreshTokenRepo repositories.RefreshTokenRepositoryInterface,
	auditRepo repositories.AuditLogRepositoryInterface,
	passwordService PasswordServiceInterface,
	tokenService TokenServiceInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		auditRepo:        auditRepo,
		passwordService:  passwordService,
		tokenService:     tokenService,
		metrics:          metrics,
		logger:           logger,
	}
}

// Register creates a user and signs them in
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest, ipAddress, userAgent string) (*models.User, *dto.TokenResponse, error) {
	if req.Password != req.PasswordConfirm {
		return nil, nil, ErrPasswordMismatch
	}

	if err := s.passwordService.ValidatePassword(req.Password); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrWeakPassword, err)
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		s.recordAuthEvent(models.AuditActionRegister, authOutcomeFailure)
		s.createAuditLog(ctx, nil, models.AuditActionRegister, models.AuditResourceUser, "", ipAddress, userAgent,
			map[string]interface{}{"email": models.NormalizeEmail(req.Email), "reason": "email_already_registered"})
		return nil, nil, ErrEmailRegistered
	}

	hashedPassword, err := s.passwordService.HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hashedPassword,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, nil, ErrEmailRegistered
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.recordAuthEvent(models.AuditActionRegister, authOutcomeSuccess)
	s.createAuditLog(ctx, &user.ID, models.AuditActionRegister, models.AuditResourceUser, user.ID.String(), ipAddress, userAgent, nil)

	return user, tokens, nil
}

// Login verifies credentials and issues a new token pair. Unknown emails and
// wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*models.User, *dto.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.auditFailedLogin(ctx, req.Email, ipAddress, userAgent, "user_not_found")
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.passwordService.ComparePassword(req.Password, user.PasswordHash) {
		s.auditFailedLogin(ctx, req.Email, ipAddress, userAgent, "invalid_password")
		return nil, nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.WarnContext(ctx, "failed to update last login",
			"error", err,
			"user_id", user.ID)
	} else {
		user.LastLoginAt = &now
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.recordAuthEvent(models.AuditActionLogin, authOutcomeSuccess)
	s.createAuditLog(ctx, &user.ID, models.AuditActionLogin, models.AuditResourceAuth, user.ID.String(), ipAddress, userAgent, nil)

	return user, tokens, nil
}

// RefreshTokens exchanges a refresh token for a new pair. Each refresh token
// works once; presenting a rotated one revokes every live token of the user.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken, ipAddress, userAgent string) (*dto.TokenResponse, error) {
	claims, err := s.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.auditFailedRefresh(ctx, nil, ipAddress, userAgent, "invalid_token")
		return nil, ErrInvalidRefreshToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		s.auditFailedRefresh(ctx, nil, ipAddress, userAgent, "invalid_subject")
		return nil, ErrInvalidRefreshToken
	}

	stored, err := s.refreshTokenRepo.GetByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
			s.auditFailedRefresh(ctx, &userID, ipAddress, userAgent, "token_not_found")
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	if stored.UserID != userID {
		s.auditFailedRefresh(ctx, &userID, ipAddress, userAgent, "subject_mismatch")
		return nil, ErrInvalidRefreshToken
	}

	if stored.IsRevoked() {
		s.handleTokenReuse(ctx, userID, ipAddress, userAgent)
		return nil, ErrInvalidRefreshToken
	}

	if stored.IsExpired() {
		s.auditFailedRefresh(ctx, &userID, ipAddress, userAgent, "token_expired")
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.auditFailedRefresh(ctx, nil, ipAddress, userAgent, "user_not_found")
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	tokens, next, err := s.signPair(user)
	if err != nil {
		return nil, err
	}

	if err := s.refreshTokenRepo.Rotate(ctx, stored, next); err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenAlreadyUsed) {
			s.handleTokenReuse(ctx, userID, ipAddress, userAgent)
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	s.recordAuthEvent(models.AuditActionTokenRefresh, authOutcomeSuccess)
	s.createAuditLog(ctx, &user.ID, models.AuditActionTokenRefresh, models.AuditResourceAuth, user.ID.String(), ipAddress, userAgent, nil)

	return tokens, nil
}

// Logout acknowledges the request. Access tokens stay valid until they
// expire; the client is expected to discard them.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string) error {
	s.recordAuthEvent(models.AuditActionLogout, authOutcomeSuccess)
	s.createAuditLog(ctx, &userID, models.AuditActionLogout, models.AuditResourceAuth, userID.String(), ipAddress, userAgent, nil)
	return nil
}

// Me returns the profile of the authenticated user
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Activity pages through the user's own audit trail, newest first
func (s *AuthService) Activity(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error) {
	logs, total, err := s.auditRepo.GetByUserID(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get activity: %w", err)
	}
	return logs, total, nil
}

// DeleteAccount removes the user with their whole ledger
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.recordAuthEvent(models.AuditActionAccountDeleted, authOutcomeSuccess)
	// The user row is gone, so the entry keeps the id as the resource only.
	s.createAuditLog(ctx, nil, models.AuditActionAccountDeleted, models.AuditResourceUser, userID.String(), ipAddress, userAgent, nil)

	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	tokens, refresh, err := s.signPair(user)
	if err != nil {
		return nil, err
	}

	if err := s.refreshTokenRepo.Create(ctx, refresh); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return tokens, nil
}

// signPair signs an access and refresh token and returns the unsaved
// refresh token row alongside them
func (s *AuthService) signPair(user *models.User) (*dto.TokenResponse, *models.RefreshToken, error) {
	accessToken, expiresAt, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := s.tokenService.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	row := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: refreshExpiresAt,
	}

	return &dto.TokenResponse{
		Access:    accessToken,
		Refresh:   refreshToken,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
	}, row, nil
}

func (s *AuthService) handleTokenReuse(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string) {
	if err := s.refreshTokenRepo.RevokeAllForUser(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to revoke refresh tokens after reuse",
			"error", err,
			"user_id", userID)
	}

	s.logger.WarnContext(ctx, "refresh token reuse detected",
		"user_id", userID,
		"ip_address", ipAddress)
	s.recordAuthEvent(models.AuditActionTokenReuse, authOutcomeFailure)
	s.createAuditLog(ctx, &userID, models.AuditActionTokenReuse, models.AuditResourceAuth, userID.String(), ipAddress, userAgent, nil)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *AuthService) auditFailedLogin(ctx context.Context, email, ipAddress, userAgent, reason string) {
	s.recordAuthEvent(models.AuditActionLogin, authOutcomeFailure)
	metadata := map[string]interface{}{
		"email":  models.NormalizeEmail(email),
		"reason": reason,
	}
	s.createAuditLog(ctx, nil, models.AuditActionFailedLogin, models.AuditResourceAuth, "", ipAddress, userAgent, metadata)
}

func (s *AuthService) auditFailedRefresh(ctx context.Context, userID *uuid.UUID, ipAddress, userAgent, reason string) {
	s.recordAuthEvent(models.AuditActionTokenRefresh, authOutcomeFailure)
	metadata := map[string]interface{}{
		"reason": reason,
	}
	s.createAuditLog(ctx, userID, models.AuditActionTokenRefresh, models.AuditResourceAuth, "", ipAddress, userAgent, metadata)
}

func (s *AuthService) recordAuthEvent(event, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementCounter(MetricAuthenticationEvent, map[string]string{
		"event":   event,
		"outcome": outcome,
	})
}

func (s *AuthService) createAuditLog(ctx context.Context, userID *uuid.UUID, action, resource, resourceID, ipAddress, userAgent string, metadata map[string]interface{}) {
	log := &models.AuditLog{
		UserID:     userID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Metadata:   metadata,
	}

	if err := s.auditRepo.Create(ctx, log); err != nil {
		// An audit failure never fails the request
		s.logger.ErrorContext(ctx, "failed to create audit log",
			"error", err,
			"action", action,
			"resource", resource,
			"resource_id", resourceID)
	}
}
