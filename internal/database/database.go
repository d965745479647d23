package database

import (
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
	config *config.DatabaseConfig
}

func New(cfg *config.DatabaseConfig, logLevel logger.LogLevel) (*DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxConnections)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		DB:     db,
		config: cfg,
	}, nil
}

func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.AuditLog{},
		&models.Transaction{},
		&models.Budget{},
	)
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (db *DB) HealthCheck() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateIndexes adds the postgres-only indexes that gorm tags cannot express
func (db *DB) CreateIndexes() error {
	queries := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_email_lower ON users(LOWER(email))",
		"CREATE INDEX IF NOT EXISTS idx_refresh_tokens_live ON refresh_tokens(user_id) WHERE revoked_at IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_created ON audit_logs(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_action ON audit_logs(action)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_user_type_date ON transactions(user_id, type, date)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_user_category ON transactions(user_id, category)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_expenses ON transactions(user_id, date) WHERE type = 'expense'",
	}

	for _, query := range queries {
		if err := db.DB.Exec(query).Error; err != nil {
			slog.Warn("failed to create index", "query", query, "error", err)
		}
	}

	return nil
}

// CleanupExpiredTokens deletes refresh tokens past their expiry
func (db *DB) CleanupExpiredTokens() (int64, error) {
	result := db.DB.Where("expires_at < ?", time.Now()).Delete(&models.RefreshToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to cleanup expired refresh tokens: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// Initialize creates and configures the database connection
func Initialize(cfg *config.Config) (*DB, error) {
	logLevel := logger.Warn
	if cfg.IsDevelopment() {
		logLevel = logger.Info
	}

	db, err := New(&cfg.Database, logLevel)
	if err != nil {
		return nil, err
	}

	// Get the underlying sql.DB for migration runner
	sqlDB, err := db.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// Run SQL-based migrations using golang-migrate if enabled
	if err := RunMigrationsIfEnabled(sqlDB); err != nil {
		slog.Warn("migration runner failed, falling back to gorm AutoMigrate", "error", err)

		if err := db.AutoMigrate(); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	if err := db.CreateIndexes(); err != nil {
		slog.Warn("failed to create some indexes", "error", err)
	}

	slog.Info("database initialized")

	return db, nil
}
