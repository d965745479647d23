package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/repositories"
	"fintrack/internal/repositories/repository_mocks"
	"fintrack/internal/services/service_mocks"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	ctrl             *gomock.Controller
	ctx              context.Context
	userRepo         *repository_mocks.MockUserRepositoryInterface
	refreshTokenRepo *repository_mocks.MockRefreshTokenRepositoryInterface
	auditRepo        *repository_mocks.MockAuditLogRepositoryInterface
	passwordService  *service_mocks.MockPasswordServiceInterface
	tokenService     *service_mocks.MockTokenServiceInterface
	metrics          *service_mocks.MockMetricsRecorderInterface
	authService      AuthServiceInterface
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ctx = context.Background()
	s.userRepo = repository_mocks.NewMockUserRepositoryInterface(s.ctrl)
	s.refreshTokenRepo = repository_mocks.NewMockRefreshTokenRepositoryInterface(s.ctrl)
	s.auditRepo = repository_mocks.NewMockAuditLogRepositoryInterface(s.ctrl)
	s.passwordService = service_mocks.NewMockPasswordServiceInterface(s.ctrl)
	s.tokenService = service_mocks.NewMockTokenServiceInterface(s.ctrl)
	s.metrics = service_mocks.NewMockMetricsRecorderInterface(s.ctrl)
	s.metrics.EXPECT().IncrementCounter(MetricAuthenticationEvent, gomock.Any()).AnyTimes()
	s.authService = NewAuthService(s.userRepo, s.refreshTokenRepo, s.auditRepo, s.passwordService, s.tokenService, s.metrics, slog.Default())
}

func (s *AuthServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:           gofakeit.Email(),
		Password:        "SecurePass123!",
		PasswordConfirm: "SecurePass123!",
		FirstName:       gofakeit.FirstName(),
		LastName:        gofakeit.LastName(),
	}
}

func (s *AuthServiceTestSuite) existingUser() *models.User {
	return &models.User{
		ID:           uuid.New(),
		Email:        gofakeit.Email(),
		PasswordHash: "hashed_password",
		FirstName:    gofakeit.FirstName(),
		LastName:     gofakeit.LastName(),
	}
}

// expectTokenPair stubs the token service and returns the refresh token text
func (s *AuthServiceTestSuite) expectTokenPair(user *models.User) string {
	expiresAt := time.Now().Add(time.Hour)
	s.tokenService.EXPECT().GenerateAccessToken(user).Return("access-token", expiresAt, nil).Times(1)
	s.tokenService.EXPECT().GenerateRefreshToken(user.ID).Return("refresh-token", expiresAt.Add(24*time.Hour), nil).Times(1)
	return "refresh-token"
}

func (s *AuthServiceTestSuite) TestRegister_Success() {
	req := s.registerRequest()

	s.passwordService.EXPECT().ValidatePassword(req.Password).Return(nil).Times(1)
	s.userRepo.EXPECT().GetByEmail(s.ctx, req.Email).Return(nil, repositories.ErrUserNotFound).Times(1)
	s.passwordService.EXPECT().HashPassword(req.Password).Return("hashed_password", nil).Times(1)
	s.userRepo.EXPECT().Create(s.ctx, gomock.Any()).DoAndReturn(func(_ context.Context, user *models.User) error {
		user.ID = uuid.New()
		return nil
	}).Times(1)
	s.tokenService.EXPECT().GenerateAccessToken(gomock.Any()).Return("access-token", time.Now().Add(time.Hour), nil).Times(1)
	s.tokenService.EXPECT().GenerateRefreshToken(gomock.Any()).Return("refresh-token", time.Now().Add(24*time.Hour), nil).Times(1)
	s.refreshTokenRepo.EXPECT().Create(s.ctx, gomock.Any()).DoAndReturn(func(_ context.Context, token *models.RefreshToken) error {
		s.Equal(hashToken("refresh-token"), token.TokenHash)
		s.NotEqual(uuid.Nil, token.UserID)
		return nil
	}).Times(1)
	s.auditRepo.EXPECT().Create(s.ctx, gomock.Any()).DoAndReturn(func(_ context.Context, log *models.AuditLog) error {
		s.Equal(models.AuditActionRegister, log.Action)
		s.NotNil(log.UserID)
		return nil
	}).Times(1)

	user, tokens, err := s.authService.Register(s.ctx, req, "192.168.1.1", "Mozilla/5.0")

	s.Require().NoError(err)
	s.Equal(req.Email, user.Email)
	s.Equal("hashed_password", user.PasswordHash)
	s.Equal("access-token", tokens.Access)
	s.Equal("refresh-token", tokens.Refresh)
	s.Equal("Bearer", tokens.TokenType)
}

func (s *AuthServiceTestSuite) TestRegister_PasswordMismatch() {
	req := s.registerRequest()
	req.PasswordConfirm = "SomethingElse123!"

	user, tokens, err := s.authService.Register(s.ctx, req, "192.168.1.1", "Mozilla/5.0")

	s.ErrorIs(err, ErrPasswordMismatch)
	s.Nil(user)
	s.Nil(tokens)
}

func (s *AuthServiceTestSuite) TestRegister_WeakPassword() {
	req := s.registerRequest()
	req.Password, req.PasswordConfirm = "short", "short"

	s.passwordService.EXPECT().ValidatePassword("short").Return(ErrPasswordTooShort{MinLength: 8}).Times(1)

	_, _, err := s.authService.Register(s.ctx, req, "192.168.1.1", "Mozilla/5.0")

	s.ErrorIs(err, ErrWeakPassword)
	s.ErrorAs(err, new(ErrPasswordTooShort))
}

func (s *AuthServiceTestSuite) TestRegister_EmailAlreadyRegistered() {
	req := s.registerRequest()

	s.passwordService.EXPECT().ValidatePassword(req.Password).Return(nil).Times(1)
	s.userRepo.EXPECT().GetByEmail(s.ctx, req.Email).Return(s.existingUser(), nil).Times(1)
	s.auditRepo.EXPECT().Create(s.ctx, gomock.Any()).Return(nil).Times(1)

	_, _, err := s.authService.Register(s.ctx, req, "192.168.1.1", "Mozilla/5.0")

	s.ErrorIs(err, ErrEmailRegistered)
}

func (s *AuthServiceTestSuite) TestRegister_CreateRaceMapsToEmailRegistered() {
	req := s.registerRequest()

	s.passwordService.EXPECT().ValidatePassword(req.Password).Return(nil).Times(1)
	s.userRepo.EXPECT().GetByEmail(s.ctx, req.Email).Return(nil, repositories.ErrUserNotFound).Times(1)
	s.passwordService.EXPECT().HashPassword(req.Password).Return("hashed_password", nil).Times(1)
	s.userRepo.EXPECT().Create(s.ctx, gomock.Any()).Return(repositories.ErrUserAlreadyExists).Times(1)

	_, _, err := s.authService.Register(s.ctx, req, "192.168.1.1", "Mozilla/5.0")

	s.ErrorIs(err, ErrEmailRegistered)
}

func (s *AuthServiceTestSuite) TestLogin_Success() {
	user := s.existingUser()
	req := &dto.LoginRequest{Email: user.Email, Password: "SecurePass123!"}

	s.userRepo.EXPECT().GetByEmail(s.ctx, req.Email).Return(user, nil).Times(1)
	s.passwordService.EXPECT().ComparePassword(req.Password, user.PasswordHash).Return(true).Times(1)
	s.userRepo.EXPECT().UpdateLastLogin(s.ctx, user.ID, gomock.Any()).Return(nil).Times(1)
	s.expectTokenPair(user)
	s.refreshTokenRepo.EXPECT().Create(s.ctx, gomock.Any()).Return(nil).Times(1)
	s.auditRepo.EXPECT().Create(s.ctx, gomock.Any()).Return(nil).Times(1)

	loggedIn, tokens, err := s.authService.Login(s.ctx, req, "192.168.1.1", "Mozilla/5.0")

	s.Require().NoError(err)
	s.Equal(user.ID, loggedIn.ID)
	s.NotNil(loggedIn.LastLoginAt)
	s.Equal("access-token", tokens.Access)
}

func (s *AuthServiceTestSuite) TestLogin_UnknownEmailAndWrongPasswordFailAlike() {
	user := s.existingUser()

	s.userRepo.EXPECT().GetByEmail(s.ctx, "nobody@example.com").Return(nil, repositories.ErrUserNotFound).Times(1)
	s.userRepo.EXPECT().GetByEmail(s.ctx, user.Email).Return(user, nil).Times(1)
	s.passwordService.EXPECT().ComparePassword("wrong", user.PasswordHash).Return(false).Times(1)
	s.auditRepo.EXPECT().Create(s.ctx, gomock.Any()).DoAndReturn(func(_ context.Context, log *models.AuditLog) error {
		s.Equal(models.AuditActionFailedLogin, log.Action)
		s.Nil(log.UserID)
		return nil
	}).Times(2)

	_, _, unknownErr := s.authService.Login(s.ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "wrong"}, "", "")
	_, _, wrongErr := s.authService.Login(s.ctx, &dto.LoginRequest{Email: user.Email, Password: "wrong"}, "", "")

	s.ErrorIs(unknownErr, ErrInvalidCredentials)
	s.ErrorIs(wrongErr, ErrInvalidCredentials)
	s.Equal(unknownErr.Error(), wrongErr.Error())
}

func (s *AuthServiceTestSuite) TestLogin_LastLoginFailureIsNotFatal() {
	user := s.existingUser()
	req := &dto.LoginRequest{Email: user.Email, Password: "SecurePass123!"}

	s.userRepo.EXPECT().GetByEmail(s.ctx, req.Email).Return(user, nil).Times(1)
	s.passwordService.EXPECT().ComparePassword(req.Password, user.PasswordHash).Return(true).Times(1)
	s.userRepo.EXPECT().UpdateLastLogin(s.ctx, user.ID, gomock.Any()).Return(errors.New("database unavailable")).Times(1)
	s.expectTokenPair(user)
	s.refreshTokenRepo.EXPECT().Create(s.ctx, gomock.Any()).Return(nil).Times(1)
	s.auditRepo.EXPECT().Create(s.ctx, gomock.Any()).Return(errors.New("audit table locked")).Times(1)

	_, tokens, err := s.authService.Login(s.ctx, req, "", "")

	s.Require().NoError(err)
	s.NotEmpty(tokens.Access)
}

func (s *AuthServiceTestSuite) TestRefreshTokens_Rotates() {
	user := s.existingUser()
	stored := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken("old-refresh"),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	s.tokenService.EXPECT().ValidateRefreshToken("old-refresh").Return(&models.CustomClaims{UserID: user.ID.String(), TokenType: models.TokenTypeRefresh}, nil).Times(1)
	s.refreshTokenRepo.EXPECT().GetByTokenHash(s.ctx, hashToken("old-refresh")).Return(stored, nil).Times(1)
	s.userRepo.EXPECT().GetByID(s.ctx, user.ID).Return(user, nil).Times(1)
	s.expectTokenPair(user)
	s.refreshTokenRepo.EXPECT().Rotate(s.ctx, stored, gomock.Any()).DoAndReturn(func(_ context.Context, current, next *models.RefreshToken) error {
		s.Equal(hashToken("refresh-token"), next.TokenHash)
		s.Equal(user.ID, next.UserID)
		return nil
	}).Times(1)
	s.auditRepo.EXPECT().Create(s.ctx, gomock.Any()).Return(nil).Times(1)

	tokens, err := s.authService.RefreshTokens(s.ctx, "old-refresh", "", "")

	s.Require().NoError(err)
	s.Equal("refresh-token", tokens.Refresh)
}

func (s *AuthServiceTestSuite) TestRefreshTokens_InvalidToken() {
	s.tokenService.EXPECT().ValidateRefreshToken("garbage").Return(nil, ErrInvalidToken).Times(1)
	s.auditRepo.EXPECT().Create(s.ctx, gomock.Any()).Return(nil).Times(1)

	_, err := s.authService.RefreshTokens(s.ctx, "garbage", "", "")

	s.ErrorIs(err, ErrInvalidRefreshToken)
}

func (s *AuthServiceTestSuite) TestRefreshTokens_ReuseRevokesEverything() {
	userID := uuid.New()
	revokedAt := time.Now().Add(-time.Minute)
	stored := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: hashToken("rotated"),
		ExpiresAt: time.Now().Add(time.Hour),
		RevokedAt: &revokedAt,
	}

	s.tokenService.EXPECT().ValidateRefreshToken("rotated").Return(&models.CustomClaims{UserID: userID.String()}, nil).Times(1)
	s.refreshTokenRepo.EXPECT().GetByTokenHash(s.ctx, hashToken("rotated")).Return(stored, nil).Times(1)
	s.refreshTokenRepo.EXPECT().RevokeAllForUser(s.ctx, userID).Return(nil).Times(1)
	s.auditRepo.EXPECT().Create(s.ctx, gomock.Any()).DoAndReturn(func(_ context.Context, log *models.AuditLog) error {
		s.Equal(models.AuditActionTokenReuse, log.Action)
		return nil
	}).Times(1)

	_, err := s.authService.RefreshTokens(s.ctx, "rotated", "", "")

	s.ErrorIs(err, ErrInvalidRefreshToken)
}

func (s *AuthServiceTestSuite) TestRefreshTokens_LostRotationRaceIsReuse() {
	user := s.existingUser()
	stored := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken("contended"),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	s.tokenService.EXPECT().ValidateRefreshToken("contended").Return(&models.CustomClaims{UserID: user.ID.String()}, nil).Times(1)
	s.refreshTokenRepo.EXPECT().GetByTokenHash(s.ctx, hashToken("contended")).Return(stored, nil).Times(1)
	s.userRepo.EXPECT().GetByID(s.ctx, user.ID).Return(user, nil).Times(1)
	s.expectTokenPair(user)
	s.refreshTokenRepo.EXPECT().Rotate(s.ctx, stored, gomock.Any()).Return(repositories.ErrRefreshTokenAlreadyUsed).Times(1)
	s.refreshTokenRepo.EXPECT().RevokeAllForUser(s.ctx, user.ID).Return(nil).Times(1)
	s.auditRepo.EXPECT().Create(s.ctx, gomock.Any()).Return(nil).Times(1)

	_, err := s.authService.RefreshTokens(s.ctx, "contended", "", "")

	s.ErrorIs(err, ErrInvalidRefreshToken)
}

func (s *AuthServiceTestSuite) TestRefreshTokens_Expired() {
	userID := uuid.New()
	stored := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: hashToken("stale"),
		ExpiresAt: time.Now().Add(-time.Hour),
	}

	s.tokenService.EXPECT().ValidateRefreshToken("stale").Return(&models.CustomClaims{UserID: userID.String()}, nil).Times(1)
	s.refreshTokenRepo.EXPECT().GetByTokenHash(s.ctx, hashToken("stale")).Return(stored, nil).Times(1)
	s.auditRepo.EXPECT().Create(s.ctx, gomock.Any()).Return(nil).Times(1)

	_, err := s.authService.RefreshTokens(s.ctx, "stale", "", "")

	s.ErrorIs(err, ErrInvalidRefreshToken)
}

func (s *AuthServiceTestSuite) TestRefreshTokens_UnknownToken() {
	userID := uuid.New()

	s.tokenService.EXPECT().ValidateRefreshToken("forged").Return(&models.CustomClaims{UserID: userID.String()}, nil).Times(1)
	s.refreshTokenRepo.EXPECT().GetByTokenHash(s.ctx, hashToken("forged")).Return(nil, repositories.ErrRefreshTokenNotFound).Times(1)
	s.auditRepo.EXPECT().Create(s.ctx, gomock.Any()).Return(nil).Times(1)

	_, err := s.authService.RefreshTokens(s.ctx, "forged", "", "")

	s.ErrorIs(err, ErrInvalidRefreshToken)
}

func (s *AuthServiceTestSuite) TestLogout_WritesAuditOnly() {
	userID := uuid.New()
	s.auditRepo.EXPECT().Create(s.ctx, gomock.Any()).DoAndReturn(func(_ context.Context, log *models.AuditLog) error {
		s.Equal(models.AuditActionLogout, log.Action)
		s.Equal(userID, *log.UserID)
		return nil
	}).Times(1)

	s.NoError(s.authService.Logout(s.ctx, userID, "", ""))
}

func (s *AuthServiceTestSuite) TestMe() {
	user := s.existingUser()
	s.userRepo.EXPECT().GetByID(s.ctx, user.ID).Return(user, nil).Times(1)

	found, err := s.authService.Me(s.ctx, user.ID)

	s.Require().NoError(err)
	s.Equal(user.Email, found.Email)
}

func (s *AuthServiceTestSuite) TestMe_NotFound() {
	id := uuid.New()
	s.userRepo.EXPECT().GetByID(s.ctx, id).Return(nil, repositories.ErrUserNotFound).Times(1)

	_, err := s.authService.Me(s.ctx, id)

	s.ErrorIs(err, ErrUserNotFound)
}

func (s *AuthServiceTestSuite) TestActivity() {
	userID := uuid.New()
	logs := []*models.AuditLog{{ID: uuid.New(), UserID: &userID, Action: models.AuditActionLogin}}
	s.auditRepo.EXPECT().GetByUserID(s.ctx, userID, 0, 20).Return(logs, int64(1), nil).Times(1)

	found, total, err := s.authService.Activity(s.ctx, userID, 0, 20)

	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Len(found, 1)
}

func (s *AuthServiceTestSuite) TestDeleteAccount() {
	userID := uuid.New()
	s.userRepo.EXPECT().Delete(s.ctx, userID).Return(nil).Times(1)
	s.auditRepo.EXPECT().Create(s.ctx, gomock.Any()).DoAndReturn(func(_ context.Context, log *models.AuditLog) error {
		s.Equal(models.AuditActionAccountDeleted, log.Action)
		s.Nil(log.UserID)
		s.Equal(userID.String(), log.ResourceID)
		return nil
	}).Times(1)

	s.NoError(s.authService.DeleteAccount(s.ctx, userID, "", ""))
}

func (s *AuthServiceTestSuite) TestDeleteAccount_NotFound() {
	userID := uuid.New()
	s.userRepo.EXPECT().Delete(s.ctx, userID).Return(repositories.ErrUserNotFound).Times(1)

	s.ErrorIs(s.authService.DeleteAccount(s.ctx, userID, "", ""), ErrUserNotFound)
}

func (s *AuthServiceTestSuite) TestHashTokenIsStable() {
	s.Equal(hashToken("abc"), hashToken("abc"))
	s.NotEqual(hashToken("abc"), hashToken("abd"))
	s.Len(hashToken("abc"), 64)
}
