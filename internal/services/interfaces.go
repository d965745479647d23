package services

import (
	"context"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"

	"github.com/google/uuid"
)

// AuthServiceInterface covers registration, credential issuance and the
// caller's own account. Every method that acts on an account takes its id.
type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest, ipAddress, userAgent string) (*models.User, *dto.TokenResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*models.User, *dto.TokenResponse, error)
	RefreshTokens(ctx context.Context, refreshToken, ipAddress, userAgent string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string) error
	Me(ctx context.Context, userID uuid.UUID) (*models.User, error)
	Activity(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string) error
}

type TokenServiceInterface interface {
	GenerateAccessToken(user *models.User) (string, time.Time, error)
	GenerateRefreshToken(userID uuid.UUID) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.CustomClaims, error)
	ValidateRefreshToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
}

type PasswordServiceInterface interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
}

// TransactionServiceInterface is the owner-scoped transaction ledger
type TransactionServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, input models.TransactionInput) (*models.Transaction, error)
	List(ctx context.Context, userID uuid.UUID, filters models.TransactionFilters) ([]models.Transaction, int64, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error)
	Update(ctx context.Context, userID, id uuid.UUID, input models.TransactionInput) (*models.Transaction, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	ByCategory(ctx context.Context, userID uuid.UUID, category string) ([]models.Transaction, error)
	ByDateRange(ctx context.Context, userID uuid.UUID, window models.DateRange) ([]models.Transaction, error)
}

// BudgetServiceInterface is the owner-scoped budget set
type BudgetServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, input models.BudgetInput) (*models.Budget, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Budget, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Budget, error)
	Update(ctx context.Context, userID, id uuid.UUID, input models.BudgetInput) (*models.Budget, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	SpendingVsBudget(ctx context.Context, userID uuid.UUID) ([]models.BudgetComparison, error)
}

// DashboardServiceInterface computes read-only figures from a user's ledger
type DashboardServiceInterface interface {
	Overview(ctx context.Context, userID uuid.UUID) (*models.Overview, error)
	SpendingBreakdown(ctx context.Context, userID uuid.UUID) ([]models.CategorySpending, error)
	SpendingTrend(ctx context.Context, userID uuid.UUID, days int) ([]models.DailyTotal, error)
	RecentTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]models.Transaction, error)
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
}

// ActivityLoggerInterface emits structured domain events
type ActivityLoggerInterface interface {
	LogTransactionCreated(ctx context.Context, userID uuid.UUID, transaction *models.Transaction)
	LogTransactionUpdated(ctx context.Context, userID uuid.UUID, transaction *models.Transaction)
	LogTransactionDeleted(ctx context.Context, userID, transactionID uuid.UUID)
	LogBudgetCreated(ctx context.Context, userID uuid.UUID, budget *models.Budget)
	LogBudgetUpdated(ctx context.Context, userID uuid.UUID, budget *models.Budget)
	LogBudgetDeleted(ctx context.Context, userID, budgetID uuid.UUID)
	LogDashboardComputed(ctx context.Context, userID uuid.UUID, operation string, duration time.Duration)
	LogValidationFailure(ctx context.Context, operation string, err error)
}
