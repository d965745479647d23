package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fintrack/internal/config"
	"fintrack/internal/models"
	"fintrack/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidTransaction  = errors.New("invalid transaction")
	ErrDateRangeIncomplete = errors.New("start_date and end_date must be provided together")
	ErrInvalidDateRange    = errors.New("start_date must not be after end_date")
	ErrUnknownCategory     = errors.New("unknown category")
)

type transactionService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	activity        ActivityLoggerInterface
	metrics         MetricsRecorderInterface
	ledger          config.LedgerConfig
	clock           Clock
}

// NewTransactionService creates the owner-scoped transaction service
func NewTransactionService(
	transactionRepo repositories.TransactionRepositoryInterface,
	activity ActivityLoggerInterface,
	metrics MetricsRecorderInterface,
	ledger config.LedgerConfig,
	clock Clock,
) TransactionServiceInterface {
	return &transactionService{
		transactionRepo: transactionRepo,
		activity:        activity,
		metrics:         metrics,
		ledger:          ledger,
		clock:           clock,
	}
}

// Create binds a new transaction to userID and stores it
func (s *transactionService) Create(ctx context.Context, userID uuid.UUID, input models.TransactionInput) (*models.Transaction, error) {
	transaction := &models.Transaction{UserID: userID}
	input.ApplyTo(transaction)

	if err := transaction.Validate(); err != nil {
		s.activity.LogValidationFailure(ctx, "transaction.create", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}

	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.recordWrite("create")
	s.activity.LogTransactionCreated(ctx, userID, transaction)

	return transaction, nil
}

// List returns a page of the user's transactions, newest first, and the
// total matching count
func (s *transactionService) List(ctx context.Context, userID uuid.UUID, filters models.TransactionFilters) ([]models.Transaction, int64, error) {
	filters, err := s.resolveFilters(filters)
	if err != nil {
		return nil, 0, err
	}

	transactions, total, err := s.transactionRepo.List(ctx, userID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, total, nil
}

// Get returns one of the user's transactions
func (s *transactionService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	transaction, err := s.transactionRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return transaction, nil
}

// Update replaces every editable field of one of the user's transactions
func (s *transactionService) Update(ctx context.Context, userID, id uuid.UUID, input models.TransactionInput) (*models.Transaction, error) {
	transaction, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	input.ApplyTo(transaction)
	if err := transaction.Validate(); err != nil {
		s.activity.LogValidationFailure(ctx, "transaction.update", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}

	if err := s.transactionRepo.Update(ctx, transaction); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	s.recordWrite("update")
	s.activity.LogTransactionUpdated(ctx, userID, transaction)

	return transaction, nil
}

// Delete removes one of the user's transactions
func (s *transactionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.transactionRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.recordWrite("delete")
	s.activity.LogTransactionDeleted(ctx, userID, id)

	return nil
}

// ByCategory returns every transaction of the user in category
func (s *transactionService) ByCategory(ctx context.Context, userID uuid.UUID, category string) ([]models.Transaction, error) {
	category = strings.TrimSpace(category)
	if !models.IsValidCategory(category) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	transactions, _, err := s.transactionRepo.List(ctx, userID, models.TransactionFilters{Category: category})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by category: %w", err)
	}
	return transactions, nil
}

// ByDateRange returns every transaction of the user dated within window,
// both ends inclusive
func (s *transactionService) ByDateRange(ctx context.Context, userID uuid.UUID, window models.DateRange) ([]models.Transaction, error) {
	start, end := models.DateOnly(window.Start), models.DateOnly(window.End)
	if start.IsZero() || end.IsZero() {
		return nil, ErrDateRangeIncomplete
	}
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	transactions, _, err := s.transactionRepo.List(ctx, userID, models.TransactionFilters{
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by date range: %w", err)
	}
	return transactions, nil
}

// resolveFilters checks the date bounds, narrows them to the current month
// when asked and applies the page size limits
func (s *transactionService) resolveFilters(filters models.TransactionFilters) (models.TransactionFilters, error) {
	if (filters.StartDate == nil) != (filters.EndDate == nil) {
		return filters, ErrDateRangeIncomplete
	}

	if filters.HasDateRange() {
		start, end := models.DateOnly(*filters.StartDate), models.DateOnly(*filters.EndDate)
		if start.After(end) {
			return filters, ErrInvalidDateRange
		}
		filters.StartDate, filters.EndDate = &start, &end
	}

	if filters.CurrentMonth {
		month := models.MonthWindow(s.clock.Today())
		start, end := month.Start, month.End
		if filters.HasDateRange() {
			if filters.StartDate.After(start) {
				start = *filters.StartDate
			}
			if filters.EndDate.Before(end) {
				end = *filters.EndDate
			}
		}
		filters.StartDate, filters.EndDate = &start, &end
		filters.CurrentMonth = false
	}

	filters.Limit = s.ledger.PageSize(filters.Limit)
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	return filters, nil
}

func (s *transactionService) recordWrite(operation string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementCounter(MetricLedgerWrite, map[string]string{
		"resource":  "transaction",
		"operation": operation,
	})
}
