package repositories

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

// transactionRepository implements TransactionRepositoryInterface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction
func (r *transactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a transaction owned by userID
func (r *transactionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &transaction, nil
}

// List retrieves a user's transactions, newest date first, with pagination
func (r *transactionRepository) List(ctx context.Context, userID uuid.UUID, filters models.TransactionFilters) ([]models.Transaction, int64, error) {
	var transactions []models.Transaction
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)

	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.HasDateRange() {
		query = query.Where("date >= ? AND date <= ?",
			models.DateOnly(*filters.StartDate), models.DateOnly(*filters.EndDate))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query = query.Order("date DESC").Order("created_at DESC")
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	if err := query.Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, total, nil
}

// GetRecent retrieves the latest transactions for a user
func (r *transactionRepository) GetRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent transactions: %w", err)
	}
	return transactions, nil
}

// Update saves every field of the transaction. The row must belong to the
// transaction's UserID.
func (r *transactionRepository) Update(ctx context.Context, transaction *models.Transaction) error {
	result := r.db.WithContext(ctx).
		Model(transaction).
		Where("user_id = ?", transaction.UserID).
		Select("type", "category", "amount", "description", "date", "updated_at").
		Updates(transaction)
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// Delete removes a transaction owned by userID
func (r *transactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Transaction{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// SumByType totals a user's transactions of one type, optionally inside a window
func (r *transactionRepository) SumByType(ctx context.Context, userID uuid.UUID, transactionType string, window *models.DateRange) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}

	query := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND type = ?", userID, transactionType)
	if window != nil {
		query = query.Where("date >= ? AND date <= ?", window.Start, window.End)
	}

	if err := query.Scan(&result).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum %s transactions: %w", transactionType, err)
	}

	return result.Total.Round(2), nil
}

// SumExpensesByCategory groups a user's expenses in the window by category,
// largest total first. Categories with no expenses are absent.
func (r *transactionRepository) SumExpensesByCategory(ctx context.Context, userID uuid.UUID, window models.DateRange) ([]models.CategorySummary, error) {
	var summaries []models.CategorySummary

	if err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("category, COUNT(*) AS transaction_count, COALESCE(SUM(amount), 0) AS total_amount").
		Where("user_id = ? AND type = ?", userID, models.TransactionTypeExpense).
		Where("date >= ? AND date <= ?", window.Start, window.End).
		Group("category").
		Order("total_amount DESC").
		Order("category ASC").
		Scan(&summaries).Error; err != nil {
		return nil, fmt.Errorf("failed to sum expenses by category: %w", err)
	}

	for i := range summaries {
		summaries[i].TotalAmount = summaries[i].TotalAmount.Round(2)
	}

	return summaries, nil
}

// ListExpensesInRange retrieves a user's expenses in the window, oldest first
func (r *transactionRepository) ListExpensesInRange(ctx context.Context, userID uuid.UUID, window models.DateRange) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ?", userID, models.TransactionTypeExpense).
		Where("date >= ? AND date <= ?", window.Start, window.End).
		Order("date ASC").
		Order("created_at ASC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to list expenses in range: %w", err)
	}
	return transactions, nil
}
