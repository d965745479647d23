package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	// ErrRefreshTokenAlreadyUsed means another request rotated the token first
	ErrRefreshTokenAlreadyUsed = errors.New("refresh token already used")
)

// RefreshTokenRepository handles database operations for refresh tokens
type RefreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepositoryInterface {
	return &RefreshTokenRepository{
		db: db,
	}
}

// Create creates a new refresh token in the database
func (r *RefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	if token == nil {
		return errors.New("refresh token cannot be nil")
	}

	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}

	return nil
}

// GetByTokenHash retrieves a refresh token by its hash
func (r *RefreshTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	var token models.RefreshToken

	if err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("failed to get refresh token by hash: %w", err)
	}

	return &token, nil
}

// Rotate revokes current and stores next. The revoke is conditional on the
// token still being live so two concurrent refreshes cannot both succeed.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, current *models.RefreshToken, next *models.RefreshToken) error {
	if current == nil || next == nil {
		return errors.New("refresh tokens cannot be nil")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(next).Error; err != nil {
			return fmt.Errorf("failed to create rotated refresh token: %w", err)
		}

		now := time.Now()
		result := tx.Model(&models.RefreshToken{}).
			Where("id = ? AND revoked_at IS NULL", current.ID).
			Updates(map[string]interface{}{
				"revoked_at":     now,
				"replaced_by_id": next.ID,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrRefreshTokenAlreadyUsed
		}

		current.RotateTo(next.ID)
		current.RevokedAt = &now
		return nil
	})
}

// RevokeAllForUser revokes all refresh tokens for a specific user
func (r *RefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()

	if err := r.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now).Error; err != nil {
		return fmt.Errorf("failed to revoke all tokens for user: %w", err)
	}

	return nil
}

// DeleteExpired removes expired refresh tokens from the database
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at < ?", time.Now()).Delete(&models.RefreshToken{})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", result.Error)
	}

	return result.RowsAffected, nil
}
