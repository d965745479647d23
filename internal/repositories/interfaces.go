package repositories

import (
	"context"
	"time"

	"fintrack/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
	// Delete removes the user together with every transaction, budget and
	// refresh token they own.
	Delete(ctx context.Context, userID uuid.UUID) error
}

// RefreshTokenRepositoryInterface defines the contract for refresh token storage
type RefreshTokenRepositoryInterface interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	// Rotate revokes current and stores next in one database transaction.
	Rotate(ctx context.Context, current *models.RefreshToken, next *models.RefreshToken) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// AuditLogRepositoryInterface defines the contract for audit log storage
type AuditLogRepositoryInterface interface {
	Create(ctx context.Context, log *models.AuditLog) error
	GetByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error)
}

// TransactionRepositoryInterface defines ledger queries over transactions.
// Every method is scoped to the owning user.
type TransactionRepositoryInterface interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, userID uuid.UUID, filters models.TransactionFilters) ([]models.Transaction, int64, error)
	GetRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.Transaction, error)
	Update(ctx context.Context, transaction *models.Transaction) error
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// Aggregates. A nil window means all time; empty results sum to zero.
	SumByType(ctx context.Context, userID uuid.UUID, transactionType string, window *models.DateRange) (decimal.Decimal, error)
	SumExpensesByCategory(ctx context.Context, userID uuid.UUID, window models.DateRange) ([]models.CategorySummary, error)
	ListExpensesInRange(ctx context.Context, userID uuid.UUID, window models.DateRange) ([]models.Transaction, error)
}

// BudgetRepositoryInterface defines the contract for budget storage.
// Every method is scoped to the owning user.
type BudgetRepositoryInterface interface {
	Create(ctx context.Context, budget *models.Budget) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Budget, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Budget, error)
	Update(ctx context.Context, budget *models.Budget) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
