package repositories

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBudgetNotFound       = errors.New("budget not found")
	ErrBudgetCategoryExists = errors.New("budget for this category already exists")
)

// budgetRepository implements BudgetRepositoryInterface
type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *gorm.DB) BudgetRepositoryInterface {
	return &budgetRepository{
		db: db,
	}
}

// Create creates a new budget. A second budget for the same category fails
// with ErrBudgetCategoryExists.
func (r *budgetRepository) Create(ctx context.Context, budget *models.Budget) error {
	if err := r.db.WithContext(ctx).Create(budget).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrBudgetCategoryExists
		}
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

// GetByID retrieves a budget owned by userID
func (r *budgetRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Budget, error) {
	var budget models.Budget
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return &budget, nil
}

// List retrieves all budgets for a user, most recently updated first
func (r *budgetRepository) List(ctx context.Context, userID uuid.UUID) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&budgets).Error; err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}

// Update saves the budget's category and limit
func (r *budgetRepository) Update(ctx context.Context, budget *models.Budget) error {
	result := r.db.WithContext(ctx).
		Model(budget).
		Where("user_id = ?", budget.UserID).
		Select("category", "limit_amount", "updated_at").
		Updates(budget)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return ErrBudgetCategoryExists
		}
		return fmt.Errorf("failed to update budget: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBudgetNotFound
	}
	return nil
}

// Delete removes a budget owned by userID
func (r *budgetRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Budget{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete budget: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBudgetNotFound
	}
	return nil
}
