package services

import (
	"context"
	"log/slog"
	"time"

	"fintrack/internal/models"

	"github.com/google/uuid"
)

// ActivityLogger writes ledger events as structured log lines. It is separate
// from the persisted audit trail, which only records authentication events.
type ActivityLogger struct {
	logger *slog.Logger
}

func NewActivityLogger(logger *slog.Logger) ActivityLoggerInterface {
	return &ActivityLogger{
		logger: logger,
	}
}

func (al *ActivityLogger) LogTransactionCreated(ctx context.Context, userID uuid.UUID, transaction *models.Transaction) {
	al.logger.InfoContext(ctx, "transaction created",
		slog.String("event_type", "transaction_created"),
		slog.String("user_id", userID.String()),
		slog.String("transaction_id", transaction.ID.String()),
		slog.String("type", transaction.Type),
		slog.String("category", transaction.Category),
		slog.String("amount", transaction.Amount.StringFixed(2)),
		slog.String("date", models.FormatDate(transaction.Date)),
		slog.String("request_id", RequestIDFromContext(ctx)),
	)
}

func (al *ActivityLogger) LogTransactionUpdated(ctx context.Context, userID uuid.UUID, transaction *models.Transaction) {
	al.logger.InfoContext(ctx, "transaction updated",
		slog.String("event_type", "transaction_updated"),
		slog.String("user_id", userID.String()),
		slog.String("transaction_id", transaction.ID.String()),
		slog.String("type", transaction.Type),
		slog.String("category", transaction.Category),
		slog.String("amount", transaction.Amount.StringFixed(2)),
		slog.String("date", models.FormatDate(transaction.Date)),
		slog.String("request_id", RequestIDFromContext(ctx)),
	)
}

func (al *ActivityLogger) LogTransactionDeleted(ctx context.Context, userID, transactionID uuid.UUID) {
	al.logger.InfoContext(ctx, "transaction deleted",
		slog.String("event_type", "transaction_deleted"),
		slog.String("user_id", userID.String()),
		slog.String("transaction_id", transactionID.String()),
		slog.String("request_id", RequestIDFromContext(ctx)),
	)
}

func (al *ActivityLogger) LogBudgetCreated(ctx context.Context, userID uuid.UUID, budget *models.Budget) {
	al.logger.InfoContext(ctx, "budget created",
		slog.String("event_type", "budget_created"),
		slog.String("user_id", userID.String()),
		slog.String("budget_id", budget.ID.String()),
		slog.String("category", budget.Category),
		slog.String("limit_amount", budget.LimitAmount.StringFixed(2)),
		slog.String("request_id", RequestIDFromContext(ctx)),
	)
}

func (al *ActivityLogger) LogBudgetUpdated(ctx context.Context, userID uuid.UUID, budget *models.Budget) {
	al.logger.InfoContext(ctx, "budget updated",
		slog.String("event_type", "budget_updated"),
		slog.String("user_id", userID.String()),
		slog.String("budget_id", budget.ID.String()),
		slog.String("category", budget.Category),
		slog.String("limit_amount", budget.LimitAmount.StringFixed(2)),
		slog.String("request_id", RequestIDFromContext(ctx)),
	)
}

func (al *ActivityLogger) LogBudgetDeleted(ctx context.Context, userID, budgetID uuid.UUID) {
	al.logger.InfoContext(ctx, "budget deleted",
		slog.String("event_type", "budget_deleted"),
		slog.String("user_id", userID.String()),
		slog.String("budget_id", budgetID.String()),
		slog.String("request_id", RequestIDFromContext(ctx)),
	)
}

func (al *ActivityLogger) LogDashboardComputed(ctx context.Context, userID uuid.UUID, operation string, duration time.Duration) {
	al.logger.DebugContext(ctx, "dashboard computed",
		slog.String("event_type", "dashboard_computed"),
		slog.String("user_id", userID.String()),
		slog.String("operation", operation),
		slog.Int64("duration_ms", duration.Milliseconds()),
		slog.String("request_id", RequestIDFromContext(ctx)),
	)
}

func (al *ActivityLogger) LogValidationFailure(ctx context.Context, operation string, err error) {
	al.logger.WarnContext(ctx, "validation failed",
		slog.String("event_type", "validation_failure"),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
		slog.String("request_id", RequestIDFromContext(ctx)),
	)
}
