package services

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/models"
	"fintrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type dashboardService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	budgetRepo      repositories.BudgetRepositoryInterface
	activity        ActivityLoggerInterface
	metrics         MetricsRecorderInterface
	ledger          config.LedgerConfig
	clock           Clock
}

// NewDashboardService creates the read-only dashboard service
func NewDashboardService(
	transactionRepo repositories.TransactionRepositoryInterface,
	budgetRepo repositories.BudgetRepositoryInterface,
	activity ActivityLoggerInterface,
	metrics MetricsRecorderInterface,
	ledger config.LedgerConfig,
	clock Clock,
) DashboardServiceInterface {
	return &dashboardService{
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		activity:        activity,
		metrics:         metrics,
		ledger:          ledger,
		clock:           clock,
	}
}

// Overview returns all-time totals, this month's spending and the progress
// of every budget as of today
func (s *dashboardService) Overview(ctx context.Context, userID uuid.UUID) (*models.Overview, error) {
	defer s.observe(ctx, userID, "overview", s.clock.Now())

	asOf := s.clock.Today()
	month := models.MonthWindow(asOf)

	var (
		totals        models.LedgerTotals
		monthSpending decimal.Decimal
		budgets       []models.Budget
		categories    []models.CategorySummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sum, err := s.transactionRepo.SumByType(gctx, userID, models.TransactionTypeExpense, nil)
		if err != nil {
			return fmt.Errorf("failed to sum expenses: %w", err)
		}
		totals.TotalExpenses = sum
		return nil
	})
	g.Go(func() error {
		sum, err := s.transactionRepo.SumByType(gctx, userID, models.TransactionTypeIncome, nil)
		if err != nil {
			return fmt.Errorf("failed to sum income: %w", err)
		}
		totals.TotalIncome = sum
		return nil
	})
	g.Go(func() error {
		sum, err := s.transactionRepo.SumByType(gctx, userID, models.TransactionTypeExpense, &month)
		if err != nil {
			return fmt.Errorf("failed to sum month spending: %w", err)
		}
		monthSpending = sum
		return nil
	})
	g.Go(func() error {
		list, err := s.budgetRepo.List(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list budgets: %w", err)
		}
		budgets = list
		return nil
	})
	g.Go(func() error {
		summaries, err := s.transactionRepo.SumExpensesByCategory(gctx, userID, month)
		if err != nil {
			return fmt.Errorf("failed to sum expenses by category: %w", err)
		}
		categories = summaries
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.Overview{
		AsOf:              asOf,
		TotalExpenses:     totals.TotalExpenses,
		TotalIncome:       totals.TotalIncome,
		NetBalance:        totals.NetBalance(),
		ThisMonthSpending: monthSpending,
		BudgetProgress:    BuildBudgetProgress(budgets, SpentByCategory(categories)),
	}, nil
}

// SpendingBreakdown splits this month's spending by category
func (s *dashboardService) SpendingBreakdown(ctx context.Context, userID uuid.UUID) ([]models.CategorySpending, error) {
	defer s.observe(ctx, userID, "spending_breakdown", s.clock.Now())

	month := models.MonthWindow(s.clock.Today())

	var (
		categories []models.CategorySummary
		budgets    []models.Budget
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summaries, err := s.transactionRepo.SumExpensesByCategory(gctx, userID, month)
		if err != nil {
			return fmt.Errorf("failed to sum expenses by category: %w", err)
		}
		categories = summaries
		return nil
	})
	g.Go(func() error {
		list, err := s.budgetRepo.List(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list budgets: %w", err)
		}
		budgets = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return BuildSpendingBreakdown(categories, budgets), nil
}

// SpendingTrend sums daily expenses over the last days days, today
// included. Zero or negative days use the configured default.
func (s *dashboardService) SpendingTrend(ctx context.Context, userID uuid.UUID, days int) ([]models.DailyTotal, error) {
	defer s.observe(ctx, userID, "spending_trend", s.clock.Now())

	window := models.TrendWindow(s.clock.Today(), s.trendDays(days))

	expenses, err := s.transactionRepo.ListExpensesInRange(ctx, userID, window)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	return BuildSpendingTrend(expenses), nil
}

// RecentTransactions returns the user's latest transactions
func (s *dashboardService) RecentTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = s.ledger.RecentLimit
	}
	if s.ledger.MaxRecentLimit > 0 && limit > s.ledger.MaxRecentLimit {
		limit = s.ledger.MaxRecentLimit
	}

	transactions, err := s.transactionRepo.GetRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent transactions: %w", err)
	}
	return transactions, nil
}

func (s *dashboardService) trendDays(days int) int {
	if days <= 0 {
		days = s.ledger.TrendWindowDays
	}
	if s.ledger.MaxTrendDays > 0 && days > s.ledger.MaxTrendDays {
		days = s.ledger.MaxTrendDays
	}
	return days
}

func (s *dashboardService) observe(ctx context.Context, userID uuid.UUID, operation string, start time.Time) {
	duration := s.clock.Now().Sub(start)
	if s.metrics != nil {
		s.metrics.RecordProcessingTime(MetricDashboardQuery+operation, duration)
	}
	s.activity.LogDashboardComputed(ctx, userID, operation, duration)
}
