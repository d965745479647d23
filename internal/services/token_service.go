package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token is expired")
	ErrInvalidIssuer     = errors.New("invalid issuer")
	ErrInvalidTokenType  = errors.New("invalid token type")
	ErrEmptyToken        = errors.New("empty token")
	ErrInvalidAuthHeader = errors.New("invalid authorization header format")
)

const bearerPrefix = "bearer "

// TokenService issues and verifies RS256 access and refresh tokens
type TokenService struct {
	config.JWTConfig
	now func() time.Time
}

// NewTokenService creates a new token service from JWT configuration
func NewTokenService(jwtConfig *config.JWTConfig) TokenServiceInterface {
	return &TokenService{
		JWTConfig: *jwtConfig,
		now:       time.Now,
	}
}

// GenerateAccessToken signs a short-lived token identifying the user
func (ts *TokenService) GenerateAccessToken(user *models.User) (string, time.Time, error) {
	if user == nil {
		return "", time.Time{}, errors.New("user cannot be nil")
	}

	claims, expiresAt := ts.newClaims(user.ID, models.TokenTypeAccess, ts.AccessTokenDuration)
	claims.Email = user.Email

	return ts.sign(claims, expiresAt)
}

// GenerateRefreshToken signs a long-lived token that can be exchanged once
// for a new pair
func (ts *TokenService) GenerateRefreshToken(userID uuid.UUID) (string, time.Time, error) {
	if userID == uuid.Nil {
		return "", time.Time{}, errors.New("user ID cannot be nil")
	}

	claims, expiresAt := ts.newClaims(userID, models.TokenTypeRefresh, ts.RefreshTokenDuration)

	return ts.sign(claims, expiresAt)
}

// ValidateAccessToken validates and parses an access token
func (ts *TokenService) ValidateAccessToken(tokenString string) (*models.CustomClaims, error) {
	return ts.validateToken(tokenString, models.TokenTypeAccess)
}

// ValidateRefreshToken validates and parses a refresh token
func (ts *TokenService) ValidateRefreshToken(tokenString string) (*models.CustomClaims, error) {
	return ts.validateToken(tokenString, models.TokenTypeRefresh)
}

// ExtractTokenFromHeader extracts the token from a "Bearer <token>" header
func (ts *TokenService) ExtractTokenFromHeader(authHeader string) (string, error) {
	if len(authHeader) < len(bearerPrefix) || !strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return "", ErrInvalidAuthHeader
	}

	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	if token == "" {
		return "", ErrInvalidAuthHeader
	}

	return token, nil
}

// newClaims builds claims with a fresh jti so two tokens issued in the same
// second still hash differently
func (ts *TokenService) newClaims(userID uuid.UUID, tokenType string, ttl time.Duration) (models.CustomClaims, time.Time) {
	issuedAt := ts.now()
	expiresAt := issuedAt.Add(ttl)

	return models.CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.Issuer,
			Subject:   userID.String(),
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
		UserID:    userID.String(),
		TokenType: tokenType,
	}, expiresAt
}

func (ts *TokenService) sign(claims models.CustomClaims, expiresAt time.Time) (string, time.Time, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)

	tokenString, err := token.SignedString(ts.PrivateKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign %s token: %w", claims.TokenType, err)
	}

	return tokenString, expiresAt, nil
}

func (ts *TokenService) validateToken(tokenString string, expectedType string) (*models.CustomClaims, error) {
	if tokenString == "" {
		return nil, ErrEmptyToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.CustomClaims{}, ts.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithTimeFunc(ts.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*models.CustomClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Issuer != ts.Issuer {
		return nil, ErrInvalidIssuer
	}

	if claims.TokenType != expectedType {
		return nil, ErrInvalidTokenType
	}

	return claims, nil
}

func (ts *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return ts.PublicKey, nil
}
