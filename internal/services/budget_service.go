package services

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/models"
	"fintrack/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrBudgetNotFound       = errors.New("budget not found")
	ErrBudgetCategoryExists = errors.New("a budget for this category already exists")
	ErrInvalidBudget        = errors.New("invalid budget")
)

type budgetService struct {
	budgetRepo      repositories.BudgetRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	activity        ActivityLoggerInterface
	metrics         MetricsRecorderInterface
	clock           Clock
}

// NewBudgetService creates the owner-scoped budget service
func NewBudgetService(
	budgetRepo repositories.BudgetRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	activity ActivityLoggerInterface,
	metrics MetricsRecorderInterface,
	clock Clock,
) BudgetServiceInterface {
	return &budgetService{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
		activity:        activity,
		metrics:         metrics,
		clock:           clock,
	}
}

// Create adds a budget for a category the user has not budgeted yet
func (s *budgetService) Create(ctx context.Context, userID uuid.UUID, input models.BudgetInput) (*models.Budget, error) {
	budget := &models.Budget{UserID: userID}
	input.ApplyTo(budget)

	if err := budget.Validate(); err != nil {
		s.activity.LogValidationFailure(ctx, "budget.create", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidBudget, err)
	}

	if err := s.budgetRepo.Create(ctx, budget); err != nil {
		if errors.Is(err, repositories.ErrBudgetCategoryExists) {
			return nil, ErrBudgetCategoryExists
		}
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	s.recordWrite("create")
	s.activity.LogBudgetCreated(ctx, userID, budget)

	return budget, nil
}

// List returns the user's budgets, most recently updated first
func (s *budgetService) List(ctx context.Context, userID uuid.UUID) ([]models.Budget, error) {
	budgets, err := s.budgetRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}

// Get returns one of the user's budgets
func (s *budgetService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Budget, error) {
	budget, err := s.budgetRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrBudgetNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return budget, nil
}

// Update replaces the category and limit of one of the user's budgets.
// Moving to a category that already has a budget is a conflict.
func (s *budgetService) Update(ctx context.Context, userID, id uuid.UUID, input models.BudgetInput) (*models.Budget, error) {
	budget, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	input.ApplyTo(budget)
	if err := budget.Validate(); err != nil {
		s.activity.LogValidationFailure(ctx, "budget.update", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidBudget, err)
	}

	if err := s.budgetRepo.Update(ctx, budget); err != nil {
		switch {
		case errors.Is(err, repositories.ErrBudgetNotFound):
			return nil, ErrBudgetNotFound
		case errors.Is(err, repositories.ErrBudgetCategoryExists):
			return nil, ErrBudgetCategoryExists
		}
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}

	s.recordWrite("update")
	s.activity.LogBudgetUpdated(ctx, userID, budget)

	return budget, nil
}

// Delete removes one of the user's budgets
func (s *budgetService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.budgetRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repositories.ErrBudgetNotFound) {
			return ErrBudgetNotFound
		}
		return fmt.Errorf("failed to delete budget: %w", err)
	}

	s.recordWrite("delete")
	s.activity.LogBudgetDeleted(ctx, userID, id)

	return nil
}

// SpendingVsBudget compares every budget of the user with this month's
// spending in its category
func (s *budgetService) SpendingVsBudget(ctx context.Context, userID uuid.UUID) ([]models.BudgetComparison, error) {
	start := s.clock.Now()

	budgets, err := s.budgetRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	month := models.MonthWindow(s.clock.Today())
	totals, err := s.transactionRepo.SumExpensesByCategory(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses by category: %w", err)
	}

	comparisons := BuildSpendingVsBudget(budgets, SpentByCategory(totals))

	duration := s.clock.Now().Sub(start)
	if s.metrics != nil {
		s.metrics.RecordProcessingTime(MetricDashboardQuery+"spending_vs_budget", duration)
	}
	s.activity.LogDashboardComputed(ctx, userID, "spending_vs_budget", duration)

	return comparisons, nil
}

func (s *budgetService) recordWrite(operation string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementCounter(MetricLedgerWrite, map[string]string{
		"resource":  "budget",
		"operation": operation,
	})
}
