package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"fintrack/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCapturingLogger() (*bytes.Buffer, ActivityLoggerInterface) {
	buf := &bytes.Buffer{}
	handler := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return buf, NewActivityLogger(slog.New(handler))
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestActivityLogger_TransactionCreated(t *testing.T) {
	buf, logger := newCapturingLogger()
	ctx := WithRequestID(context.Background(), "req-123")
	userID := uuid.New()
	transaction := &models.Transaction{
		ID:       uuid.New(),
		Type:     models.TransactionTypeExpense,
		Category: models.CategoryFood,
		Amount:   dec("12.5"),
		Date:     day("2024-03-10"),
	}

	logger.LogTransactionCreated(ctx, userID, transaction)

	entry := decodeLine(t, buf)
	assert.Equal(t, "transaction created", entry["msg"])
	assert.Equal(t, "transaction_created", entry["event_type"])
	assert.Equal(t, userID.String(), entry["user_id"])
	assert.Equal(t, transaction.ID.String(), entry["transaction_id"])
	assert.Equal(t, "12.50", entry["amount"])
	assert.Equal(t, "2024-03-10", entry["date"])
	assert.Equal(t, "req-123", entry["request_id"])
}

func TestActivityLogger_BudgetDeleted(t *testing.T) {
	buf, logger := newCapturingLogger()
	userID, budgetID := uuid.New(), uuid.New()

	logger.LogBudgetDeleted(context.Background(), userID, budgetID)

	entry := decodeLine(t, buf)
	assert.Equal(t, "budget_deleted", entry["event_type"])
	assert.Equal(t, budgetID.String(), entry["budget_id"])
	assert.Equal(t, "", entry["request_id"])
}

func TestActivityLogger_DashboardAndValidation(t *testing.T) {
	buf, logger := newCapturingLogger()

	logger.LogDashboardComputed(context.Background(), uuid.New(), "overview", 1500*time.Microsecond)
	entry := decodeLine(t, buf)
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "overview", entry["operation"])
	assert.Equal(t, float64(1), entry["duration_ms"])

	buf.Reset()
	logger.LogValidationFailure(context.Background(), "budget.create", errors.New("budget category must be an expense category"))
	entry = decodeLine(t, buf)
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "budget category must be an expense category", entry["error"])
}

func TestRequestIDFromContext(t *testing.T) {
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
	assert.Equal(t, "abc", RequestIDFromContext(WithRequestID(context.Background(), "abc")))
}
