package database

import (
	"fmt"
	"testing"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// cleanupTables lists tables children first
var cleanupTables = []string{
	"transactions",
	"budgets",
	"audit_logs",
	"refresh_tokens",
	"users",
}

// SetupTestDB opens a migrated in-memory sqlite database. The pool is pinned
// to one connection because every new connection gets a fresh empty database.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), gormConfig)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	testDB := &DB{
		DB: db,
		config: &config.DatabaseConfig{
			MaxConnections: 1,
			MaxIdleConns:   1,
		},
	}

	if err := testDB.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return testDB
}

func CreateTestUser(t *testing.T, db *DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "hashed_password",
		FirstName:    "Test",
		LastName:     "User",
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTestTransaction stores a transaction for user. amount is a decimal
// string and date is YYYY-MM-DD.
func CreateTestTransaction(t *testing.T, db *DB, user *models.User, transactionType, category, amount, date string) *models.Transaction {
	t.Helper()

	day, err := models.ParseDate(date)
	if err != nil {
		t.Fatalf("invalid test date: %v", err)
	}

	transaction := &models.Transaction{
		UserID:   user.ID,
		Type:     transactionType,
		Category: category,
		Amount:   decimal.RequireFromString(amount),
		Date:     day,
	}

	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}

	return transaction
}

func CreateTestBudget(t *testing.T, db *DB, user *models.User, category, limit string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:      user.ID,
		Category:    category,
		LimitAmount: decimal.RequireFromString(limit),
	}

	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}

	return budget
}

func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	for _, table := range cleanupTables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Logf("failed to cleanup table %s: %v", table, err)
		}
	}
}
