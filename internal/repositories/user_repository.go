package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// pgUniqueViolation is the SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

// UserRepository handles database operations for users
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepositoryInterface {
	return &UserRepository{
		db: db,
	}
}

// Create creates a new user in the database
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &user, nil
}

// GetByEmail retrieves a user by their email address, ignoring case
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	if err := r.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// Update updates a user in the database
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}

	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// UpdateLastLogin stamps the last successful login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"last_login_at": at})
	if result.Error != nil {
		return fmt.Errorf("failed to update last login: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Delete hard deletes a user and everything they own in one transaction.
// Audit rows are kept with their user reference cleared.
func (r *UserRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := []interface{}{
			&models.Transaction{},
			&models.Budget{},
			&models.RefreshToken{},
		}
		for _, model := range owned {
			if err := tx.Where("user_id = ?", userID).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to delete owned records: %w", err)
			}
		}

		if err := tx.Model(&models.AuditLog{}).
			Where("user_id = ?", userID).
			Update("user_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach audit logs: %w", err)
		}

		result := tx.Where("id = ?", userID).Delete(&models.User{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}

		return nil
	})
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	// SQLite and wrapped driver messages
	errStr := err.Error()
	return strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "UNIQUE constraint") ||
		strings.Contains(errStr, pgUniqueViolation)
}
